package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/titansbeer/titans-linebot-go/internal/errors"
	"github.com/titansbeer/titans-linebot-go/internal/scraper"
)

const pageFixture = `<ul class="menu-section-list"><li>
<h5><a class="track-click" href="/b/x/1">1. Hazy Titan</a> <em>IPA</em></h5>
<h6><span>6% ABV</span><a href="/t">Titans</a></h6>
</li></ul>`

func TestPageStrategy_FetchMenu(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/menu":
			_, _ = w.Write([]byte(pageFixture))
		case "/blocked":
			_, _ = w.Write([]byte("<html>Just a moment...</html>"))
		case "/empty":
			_, _ = w.Write([]byte(`<ul class="menu-section-list"></ul>`))
		}
	}))
	defer srv.Close()

	client := scraper.NewClient(time.Second)
	marker := "menu-section-list"

	records, err := NewPageStrategy("direct-desktop", srv.URL+"/menu", scraper.DesktopHeaders, marker, client).FetchMenu(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Hazy Titan", records[0].Name)
	assert.Equal(t, "https://untappd.com/b/x/1", records[0].CheckIn)

	_, err = NewPageStrategy("direct-desktop", srv.URL+"/blocked", nil, marker, client).FetchMenu(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrMarkerNotFound)

	_, err = NewPageStrategy("direct-desktop", srv.URL+"/empty", nil, marker, client).FetchMenu(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrEmptyResult)
}

func TestRelayURL(t *testing.T) {
	t.Parallel()

	got := RelayURL("https://relay.example/?url=", "https://untappd.com/v/titans/1")
	assert.Equal(t, "https://relay.example/?url=https%3A%2F%2Funtappd.com%2Fv%2Ftitans%2F1", got)
}

func TestPageStrategy_ThroughRelay(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("url") != "https://venue.example/menu" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(pageFixture))
	}))
	defer srv.Close()

	strategies := PageStrategies("https://venue.example/menu", "menu-section-list", []string{srv.URL + "/?url="}, scraper.NewClient(time.Second))
	require.Len(t, strategies, 3)
	relay := strategies[2]
	assert.Equal(t, "relay-1", relay.Name())

	records, err := relay.FetchMenu(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
