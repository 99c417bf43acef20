package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-planner/internal/config"
)

// Fetcher retrieves a remote calendar document.
type Fetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher implements Fetcher over net/http.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates a fetcher with the configured client timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch downloads targetURL. webcal:// links are fetched over https.
// Basic auth is sent when a user or password is given. The body is capped at
// config.MaxHTTPResponseSize.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}

	switch u.Scheme {
	case config.SchemeHTTP, config.SchemeHTTPS:
	case config.SchemeWebcal:
		u.Scheme = config.SchemeHTTPS
	default:
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	// Query strings of shared calendar links often carry access tokens.
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.AcceptCalendar)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		log.Warn(config.MsgFetchFailed, config.LogKeyError, err)
		return nil, fmt.Errorf("fetch calendar: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchFailed, config.LogKeyStatus, resp.StatusCode)
		return nil, fmt.Errorf("fetch calendar: %s", resp.Status)
	}

	log.Debug(config.MsgFetched, config.LogKeySizeBytes, resp.ContentLength)
	return cappedBody{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

// cappedBody stops reading after config.MaxHTTPResponseSize bytes and closes the response body.
type cappedBody struct {
	io.Reader
	io.Closer
}
