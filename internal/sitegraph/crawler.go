package sitegraph

//go:generate mockgen -source=crawler.go -destination=mocks/mock_sitegraph.go -package=mocks

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	sharedErrors "github.com/khanhnv2901/netrax/internal/shared/errors"
	"go.uber.org/zap"
)

// SubdomainSource lists known subdomains of a domain.
type SubdomainSource interface {
	Subdomains(ctx context.Context, domain string) ([]string, error)
}

// PageFetcher returns the HTML body served at pageURL.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (string, error)
}

// DomainFunc is invoked before each (sub)domain is visited. index is 1-based.
type DomainFunc func(domain string, index, total int)

// Crawler builds site graphs. Sources and Fetcher are required.
type Crawler struct {
	Sources         SubdomainSource
	Fetcher         PageFetcher
	Logger          *zap.Logger
	MaxLinksPerPage int // defaults to MaxLinksPerPage when <= 0
	OnDomain        DomainFunc
}

// Crawl builds the site graph for domain. Homepage failures are logged and
// skipped; a failed subdomain lookup, cancellation, or an empty result fails
// the whole crawl with an error wrapping ErrCrawl.
func (c *Crawler) Crawl(ctx context.Context, domain string) (*Graph, error) {
	graph, err := c.crawl(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sharedErrors.ErrCrawl, err)
	}
	return graph, nil
}

func (c *Crawler) crawl(ctx context.Context, domain string) (*Graph, error) {
	if c.Sources == nil || c.Fetcher == nil {
		return nil, fmt.Errorf("%w: crawler needs a subdomain source and a page fetcher", sharedErrors.ErrMissingRequired)
	}
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, sharedErrors.ErrEmptyDomain
	}

	logger := c.logger().With(zap.String("root_domain", domain))
	b := newBuilder()

	subdomains, err := c.Sources.Subdomains(ctx, domain)
	if err != nil {
		return nil, err
	}
	targets := uniqueDomains(domain, subdomains)
	logger.Debug("subdomains resolved", zap.Int("count", len(targets)-1))

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.OnDomain != nil {
			c.OnDomain(target, i+1, len(targets))
		}

		domainIdx := b.addNode(target, "")
		b.addLink(0, domainIdx, DomainLinkWeight)

		body, err := c.Fetcher.FetchPage(ctx, "https://"+target)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("skipping domain", zap.String("domain", target), zap.Error(err))
			continue
		}

		added := c.addPageLinks(b, domainIdx, domain, target, body, logger)
		logger.Debug("domain crawled", zap.String("domain", target), zap.Int("links", added))
	}

	if b.empty() {
		return nil, sharedErrors.ErrNoData
	}
	return b.graph(), nil
}

func (c *Crawler) addPageLinks(b *builder, domainIdx int, rootDomain, host, body string, logger *zap.Logger) int {
	links := ExtractLinks(body, host)
	limit := c.MaxLinksPerPage
	if limit <= 0 {
		limit = MaxLinksPerPage
	}
	if len(links) > limit {
		links = links[:limit]
	}

	added := 0
	for _, link := range links {
		u, err := url.Parse(link)
		if err != nil {
			continue
		}
		typ, err := ClassifyLink(link, rootDomain)
		if err != nil {
			logger.Debug("unclassifiable link", zap.String("link", link), zap.Error(err))
			continue
		}
		idx := b.addNode(linkNodeKey(u), typ)
		b.addLink(domainIdx, idx, PageLinkWeight)
		added++
	}
	return added
}

func (c *Crawler) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// uniqueDomains returns seed followed by every distinct subdomain, preserving order.
func uniqueDomains(seed string, subdomains []string) []string {
	seen := map[string]struct{}{seed: {}}
	out := make([]string, 0, len(subdomains)+1)
	out = append(out, seed)
	for _, s := range subdomains {
		s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
