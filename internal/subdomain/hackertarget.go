// Package subdomain looks up known subdomains of a domain through public
// passive-DNS services.
package subdomain

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/khanhnv2901/netrax/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/netrax/internal/shared/errors"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public HackerTarget API endpoint.
	DefaultBaseURL = "https://api.hackertarget.com"

	noResultsSentinel = "error check your search query"
	quotaSentinel     = "API count exceeded"
)

// HackerTarget queries the hostsearch endpoint, which answers with one
// "subdomain,ip" pair per line.
type HackerTarget struct {
	BaseURL string        // defaults to DefaultBaseURL
	Client  *http.Client  // defaults to a client with Timeout
	Timeout time.Duration // used only when Client is nil
	Limiter *rate.Limiter // optional; waited on before every request
}

// NewHackerTarget builds a source. ratePerMinute <= 0 disables client-side limiting.
func NewHackerTarget(baseURL string, timeout time.Duration, ratePerMinute int) *HackerTarget {
	h := &HackerTarget{
		BaseURL: baseURL,
		Timeout: timeout,
	}
	if ratePerMinute > 0 {
		h.Limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), 1)
	}
	return h
}

// Subdomains implements sitegraph.SubdomainSource.
func (h *HackerTarget) Subdomains(ctx context.Context, domain string) ([]string, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, sharedErrors.ErrEmptyDomain
	}
	if h.Limiter != nil {
		if err := h.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	base := h.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	endpoint := strings.TrimRight(base, "/") + "/hostsearch/?q=" + url.QueryEscape(domain)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sharedErrors.ErrSubdomainLookup, err)
	}
	req.Header.Set("User-Agent", constants.BrowserUserAgent)

	resp, err := h.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sharedErrors.ErrSubdomainLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", sharedErrors.ErrSubdomainLookup, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxSubdomainBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", sharedErrors.ErrSubdomainLookup, err)
	}
	return ParseHostSearch(string(body))
}

func (h *HackerTarget) client() *http.Client {
	if h.Client != nil {
		return h.Client
	}
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// ParseHostSearch extracts subdomains from a hostsearch response body. The
// "no results" sentinel is checked against the whole body, so a sentinel line
// anywhere discards every row.
func ParseHostSearch(body string) ([]string, error) {
	if strings.Contains(body, noResultsSentinel) {
		return []string{}, nil
	}
	if strings.Contains(body, quotaSentinel) {
		return nil, sharedErrors.ErrQuotaExceeded
	}

	lines := strings.Split(body, "\n")
	subdomains := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		host, _, _ := strings.Cut(line, ",")
		host = strings.TrimSpace(host)
		if host == "" {
			continue
		}
		subdomains = append(subdomains, host)
	}
	return subdomains, nil
}
