// Package scraper provides the outbound HTTP transport used to fetch the
// venue menu and talk to the delegated beer service. Requests are bounded by
// a timeout and are never retried.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	apperrors "github.com/titansbeer/titans-linebot-go/internal/errors"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// Client is an HTTP client for page and JSON fetches
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new client whose every request is bounded by timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// NewClientWithHTTP wraps an existing http.Client.
func NewClientWithHTTP(hc *http.Client) *Client {
	return &Client{httpClient: hc}
}

// Get performs a GET request with the given headers and returns the decoded body.
// Non-2xx responses return a *errors.FetchError wrapping ErrUnexpectedStatus.
func (c *Client) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.do(req)
}

// GetJSON performs a GET request and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	header := http.Header{}
	header.Set("Accept", "application/json")

	body, err := c.Get(ctx, url, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewFetchError("", url, 0, fmt.Errorf("failed to decode JSON: %w", err))
	}
	return nil
}

// PostJSON performs a POST request with a JSON body. Any 2xx response is success.
func (c *Client) PostJSON(ctx context.Context, url string, in any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	_, err = c.do(req)
	return err
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	url := req.URL.String()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError("", url, 0, classify(req.Context(), err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, apperrors.NewFetchError("", url, resp.StatusCode, apperrors.ErrUnexpectedStatus)
	}

	reader, err := decodeBody(resp)
	if err != nil {
		return nil, apperrors.NewFetchError("", url, resp.StatusCode, err)
	}
	defer func() { _ = reader.Close() }()

	body, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes))
	if err != nil {
		return nil, apperrors.NewFetchError("", url, resp.StatusCode, classify(req.Context(), err))
	}
	return body, nil
}

// decodeBody unwraps Content-Encoding. The transport only decompresses
// transparently when it chose the Accept-Encoding header itself.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress gzip: %w", err)
		}
		return gz, nil
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress deflate: %w", err)
		}
		return zr, nil
	default:
		return io.NopCloser(resp.Body), nil
	}
}

func classify(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", apperrors.ErrTimeout, err)
	}
	return err
}
