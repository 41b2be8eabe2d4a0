package utils

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kelsos/nft-snapshot/internal/logger"
)

// FetchBytes performs a GET request against url and returns the raw response
// body. Used to retrieve an ABI descriptor from an HTTP source.
func FetchBytes(url string, timeout time.Duration) ([]byte, error) {
	start := time.Now()
	logger.Debug("Starting request to %s", url)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		elapsed := time.Since(start)
		logger.Error("Request failed after (%s) %v: %v", url, elapsed, err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	logger.Debug("Request to %s completed in %v with status %d", url, elapsed, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		logger.Error("%s: HTTP error %d: %s", url, resp.StatusCode, string(body))
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
