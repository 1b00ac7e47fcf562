package scraper

import (
	"net/http"

	"github.com/corpix/uarand"
)

const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:128.0) Gecko/20100101 Firefox/128.0"

// DesktopHeaders returns a fixed header set mimicking desktop Firefox.
func DesktopHeaders() http.Header {
	h := browserHeaders()
	h.Set("User-Agent", desktopUserAgent)
	return h
}

// RotatingHeaders returns a browser header set with a random user agent.
func RotatingHeaders() http.Header {
	h := browserHeaders()
	h.Set("User-Agent", uarand.GetRandom())
	return h
}

func browserHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9,ja;q=0.8")
	h.Set("Accept-Encoding", "gzip, deflate")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	return h
}
