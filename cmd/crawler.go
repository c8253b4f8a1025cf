package cmd

import (
	"path/filepath"

	jsonrepo "github.com/khanhnv2901/netrax/internal/infrastructure/persistence/json"
	"github.com/khanhnv2901/netrax/internal/shared/constants"
	"github.com/khanhnv2901/netrax/internal/sitegraph"
	"github.com/khanhnv2901/netrax/internal/subdomain"
	"go.uber.org/zap"
)

// newCrawler is swapped in tests to avoid the network.
var newCrawler = buildCrawler

// buildCrawler wires the crawler from runtime config. The returned func
// releases the headless browser when one was started.
func buildCrawler(appCtx *AppContext, onDomain sitegraph.DomainFunc) (*sitegraph.Crawler, func()) {
	cfg := appCtx.Config
	fetchTimeout := secondsOrZero(cfg.Crawl.FetchTimeoutSecs)

	var fetcher sitegraph.PageFetcher
	cleanup := func() {}
	if cfg.Crawl.RenderJS {
		browser := sitegraph.NewBrowserFetcher(constants.BrowserUserAgent, secondsOrZero(cfg.Crawl.JSWaitSecs), fetchTimeout)
		fetcher = browser
		cleanup = browser.Close
	} else {
		fetcher = &sitegraph.HTTPFetcher{
			Client:       sitegraph.NewHTTPClient(fetchTimeout),
			UserAgent:    constants.BrowserUserAgent,
			MaxBodyBytes: constants.MaxPageBodyBytes,
		}
	}
	if cfg.Crawl.RespectRobots {
		gate := &sitegraph.RobotsGate{
			Client: sitegraph.NewHTTPClient(fetchTimeout),
			Agent:  sitegraph.DefaultRobotsAgent,
		}
		fetcher = gate.Wrap(fetcher)
	}

	return &sitegraph.Crawler{
		Sources:         newSubdomainSource(cfg),
		Fetcher:         fetcher,
		Logger:          desugar(appCtx),
		MaxLinksPerPage: cfg.Crawl.MaxLinks,
		OnDomain:        onDomain,
	}, cleanup
}

func newSubdomainSource(cfg *CLIConfig) sitegraph.SubdomainSource {
	return subdomain.NewHackerTarget(cfg.Subdomain.BaseURL, secondsOrZero(cfg.Subdomain.TimeoutSecs), cfg.Subdomain.RatePerMinute)
}

func newSnapshotRepository(appCtx *AppContext) (*jsonrepo.SnapshotRepository, error) {
	return jsonrepo.NewSnapshotRepository(filepath.Join(appCtx.ResultsDir, constants.SnapshotDirName))
}

func desugar(appCtx *AppContext) *zap.Logger {
	if appCtx == nil || appCtx.Logger == nil {
		return zap.NewNop()
	}
	return appCtx.Logger.Desugar()
}
