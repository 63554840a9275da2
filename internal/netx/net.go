// Package netx holds plain HTTP helpers.
package netx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrTooLarge is returned when a response body exceeds the caller's limit.
var ErrTooLarge = errors.New("response body too large")

// Download GETs url with client and returns the body. Non-200 responses are
// errors carrying the status and a short body excerpt. Bodies larger than
// maxBytes fail with ErrTooLarge; maxBytes <= 0 disables the limit.
func Download(ctx context.Context, client *http.Client, url string, maxBytes int64) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	return ReadAll(resp.Body, maxBytes)
}

// ReadAll reads r to the end, failing with ErrTooLarge once more than
// maxBytes have been read. maxBytes <= 0 disables the limit.
func ReadAll(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
