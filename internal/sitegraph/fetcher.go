package sitegraph

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/khanhnv2901/netrax/internal/shared/constants"
)

// HTTPFetcher fetches homepages over plain HTTP, following redirects. The
// response status is not inspected: error pages still carry links.
type HTTPFetcher struct {
	Client       *http.Client
	UserAgent    string        // defaults to constants.BrowserUserAgent
	Timeout      time.Duration // per fetch; 0 leaves the client's own timeout in charge
	MaxBodyBytes int64         // defaults to constants.MaxPageBodyBytes
}

// NewHTTPClient returns the client used for homepage fetches.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: false,
				MinVersion:         tls.VersionTLS12,
			},
		},
	}
}

// FetchPage implements PageFetcher.
func (f *HTTPFetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	if pageURL == "" {
		return "", errors.New("page url is required")
	}
	client := f.Client
	if client == nil {
		client = NewHTTPClient(0)
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	ua := f.UserAgent
	if ua == "" {
		ua = constants.BrowserUserAgent
	}
	req.Header.Set("User-Agent", ua)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	limit := f.MaxBodyBytes
	if limit <= 0 {
		limit = constants.MaxPageBodyBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}
