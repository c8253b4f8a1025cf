package sitegraph

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/benjaminestes/robots/v2"
	sharedErrors "github.com/khanhnv2901/netrax/internal/shared/errors"
)

// DefaultRobotsAgent is the product token matched against robots.txt groups.
const DefaultRobotsAgent = "netrax"

// RobotsGate answers robots.txt questions, caching one matcher per robots.txt URL.
// An unreachable robots.txt is treated as a server error, which disallows everything.
type RobotsGate struct {
	Client *http.Client
	Agent  string

	mu      sync.Mutex
	testers map[string]func(string) bool
}

// Allowed reports whether pageURL may be fetched.
func (g *RobotsGate) Allowed(ctx context.Context, pageURL string) (bool, error) {
	robotsURL, err := robots.Locate(pageURL)
	if err != nil {
		return false, fmt.Errorf("%w: %v", sharedErrors.ErrInvalidURL, err)
	}

	g.mu.Lock()
	tester, ok := g.testers[robotsURL]
	g.mu.Unlock()
	if !ok {
		tester = g.load(ctx, robotsURL)
		g.mu.Lock()
		if g.testers == nil {
			g.testers = make(map[string]func(string) bool)
		}
		g.testers[robotsURL] = tester
		g.mu.Unlock()
	}
	return tester(pageURL), nil
}

// Wrap returns a PageFetcher that consults robots.txt before delegating to next.
func (g *RobotsGate) Wrap(next PageFetcher) PageFetcher {
	return &robotsFetcher{gate: g, next: next}
}

func (g *RobotsGate) load(ctx context.Context, robotsURL string) func(string) bool {
	agent := g.Agent
	if agent == "" {
		agent = DefaultRobotsAgent
	}
	client := g.Client
	if client == nil {
		client = NewHTTPClient(0)
	}

	unavailable := func() func(string) bool {
		rtxt, _ := robots.From(http.StatusServiceUnavailable, nil)
		return rtxt.Tester(agent)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return unavailable()
	}
	resp, err := client.Do(req)
	if err != nil {
		return unavailable()
	}
	defer resp.Body.Close()

	rtxt, err := robots.From(resp.StatusCode, resp.Body)
	if err != nil {
		return unavailable()
	}
	return rtxt.Tester(agent)
}

type robotsFetcher struct {
	gate *RobotsGate
	next PageFetcher
}

func (f *robotsFetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	allowed, err := f.gate.Allowed(ctx, pageURL)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", fmt.Errorf("%w: %s", sharedErrors.ErrRobotsDisallow, pageURL)
	}
	return f.next.FetchPage(ctx, pageURL)
}
