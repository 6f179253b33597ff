package migration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Fetcher retrieves the bytes behind a legacy attachment link.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher downloads over HTTP, retrying transport errors, 429 and 5xx
// with exponential backoff. Other statuses fail at once.
type HTTPFetcher struct {
	Client   *http.Client
	Retries  uint64
	MaxBytes int64
}

func NewHTTPFetcher(timeout time.Duration, retries uint64, maxBytes int64) *HTTPFetcher {
	return &HTTPFetcher{
		Client:   &http.Client{Timeout: timeout},
		Retries:  retries,
		MaxBytes: maxBytes,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := f.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
			return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d", url, resp.StatusCode))
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes+1))
		if err != nil {
			return err
		}
		if int64(len(body)) > f.MaxBytes {
			return backoff.Permanent(fmt.Errorf("fetch %s: larger than %d bytes", url, f.MaxBytes))
		}
		data = body
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), f.Retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return data, nil
}
