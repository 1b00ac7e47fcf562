package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titansbeer/titans-linebot-go/internal/beer"
	apperrors "github.com/titansbeer/titans-linebot-go/internal/errors"
	"github.com/titansbeer/titans-linebot-go/internal/fetcher"
)

type fakeStrategy struct {
	name    string
	records []beer.Record
	err     error
	delay   time.Duration
}

func (f fakeStrategy) Name() string { return f.name }

func (f fakeStrategy) FetchMenu(ctx context.Context) ([]beer.Record, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.records, f.err
}

func TestParseNames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"all", "delegated,direct-desktop", []string{"delegated", "direct-desktop"}},
		{"with spaces", " relay-1 , relay-2 ", []string{"relay-1", "relay-2"}},
		{"empty string", "", []string{}},
		{"only commas", ",,,", []string{}},
		{"mixed case", "Direct-Rotating", []string{"direct-rotating"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseNames(tt.input))
		})
	}
}

func TestSelectStrategies(t *testing.T) {
	all := []fetcher.MenuStrategy{fakeStrategy{name: "delegated"}, fakeStrategy{name: "direct-desktop"}, fakeStrategy{name: "relay-1"}}

	assert.Len(t, selectStrategies(all, nil), 3)

	got := selectStrategies(all, []string{"relay-1", "delegated", "nope"})
	require.Len(t, got, 2)
	assert.Equal(t, "delegated", got[0].Name(), "configured order is kept")
	assert.Equal(t, "relay-1", got[1].Name())
}

func TestProbe(t *testing.T) {
	strategies := []fetcher.MenuStrategy{
		fakeStrategy{name: "delegated", err: errors.New("connection refused")},
		fakeStrategy{name: "direct-desktop", records: []beer.Record{{Name: "A"}, {Name: "B"}}},
		fakeStrategy{name: "direct-rotating", err: apperrors.ErrEmptyResult},
		fakeStrategy{name: "relay-1", delay: time.Second},
	}

	results := probe(context.Background(), strategies, 50*time.Millisecond, 2)
	require.Len(t, results, 4)

	assert.Equal(t, fetcher.StatusError, results[0].status)
	assert.Equal(t, fetcher.StatusOK, results[1].status)
	assert.Equal(t, 2, results[1].count)
	assert.Equal(t, fetcher.StatusEmpty, results[2].status)
	assert.Equal(t, fetcher.StatusError, results[3].status)
	assert.ErrorIs(t, results[3].err, context.DeadlineExceeded)

	var out bytes.Buffer
	assert.True(t, report(&out, results))
	assert.Contains(t, out.String(), "1/4 strategies returned beers")
	assert.Contains(t, out.String(), "connection refused")
}

func TestReport_NoneWorking(t *testing.T) {
	var out bytes.Buffer
	ok := report(&out, []probeResult{{strategy: "delegated", status: fetcher.StatusError, err: errors.New("down")}})
	assert.False(t, ok)
	assert.Contains(t, out.String(), "0/1")
}
