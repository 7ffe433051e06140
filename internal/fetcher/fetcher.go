package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxBodySize      = 5 * 1024 * 1024
)

// FetchError reports a transport failure (StatusCode 0) or a non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

type FetcherOption func(*Fetcher)

func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.client.Timeout = timeout
	}
}

func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithRateLimit caps outgoing requests per second; zero or less disables the cap.
func WithRateLimit(perSecond float64) FetcherOption {
	return func(f *Fetcher) {
		if perSecond > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

func New(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent: defaultUserAgent,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch returns the body of url. Any failure is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", &FetchError{URL: url, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	return string(body), nil
}
