// Package main is a container healthcheck probe. It exits 0 when the local
// server answers /livez with 200.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/titansbeer/titans-linebot-go/internal/config"
)

func main() {
	port := os.Getenv(config.EnvPort)
	if len(os.Args) > 1 && os.Args[1] != "" {
		port = os.Args[1]
	}
	if port == "" {
		port = "10000"
	}

	client := &http.Client{Timeout: config.HealthcheckRequest}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%s/livez", port))
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
