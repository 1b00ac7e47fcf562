package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/titansbeer/titans-linebot-go/internal/errors"
)

func TestClient_Get_PlainAndHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, desktopUserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<ul class=\"menu-section-list\"></ul>"))
	}))
	defer srv.Close()

	body, err := NewClient(time.Second).Get(context.Background(), srv.URL, DesktopHeaders())
	require.NoError(t, err)
	assert.Contains(t, string(body), "menu-section-list")
}

func TestClient_Get_Gzip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte("compressed menu"))
		_ = gz.Close()
	}))
	defer srv.Close()

	body, err := NewClient(time.Second).Get(context.Background(), srv.URL, RotatingHeaders())
	require.NoError(t, err)
	assert.Equal(t, "compressed menu", string(body))
}

func TestClient_Get_Non2xx(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(time.Second).Get(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnexpectedStatus)
	assert.Equal(t, http.StatusForbidden, apperrors.StatusCode(err))
	assert.Equal(t, int32(1), calls.Load(), "requests are not retried")
}

func TestClient_Get_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewClient(50*time.Millisecond).Get(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClient_GetJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			_, _ = w.Write([]byte("<html>"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"A"}]`))
	}))
	defer srv.Close()

	c := NewClient(time.Second)

	var out []map[string]string
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, "A", out[0]["name"])

	err := c.GetJSON(context.Background(), srv.URL+"/bad", &out)
	require.Error(t, err)
	var fe *apperrors.FetchError
	assert.True(t, errors.As(err, &fe))
}

func TestClient_PostJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"))
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in["user_id"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(time.Second)
	require.NoError(t, c.PostJSON(context.Background(), srv.URL, map[string]string{"user_id": "U1"}))

	err := c.PostJSON(context.Background(), srv.URL, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
}

func TestRotatingHeaders(t *testing.T) {
	t.Parallel()

	h := RotatingHeaders()
	assert.NotEmpty(t, h.Get("User-Agent"))
	assert.Equal(t, "gzip, deflate", h.Get("Accept-Encoding"))
}
