package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/khanhnv2901/netrax/internal/sitegraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	graphFormat   string
	graphSave     bool
	graphProgress bool
	graphTypes    []string
)

var graphCmd = &cobra.Command{
	Use:   "graph <domain>...",
	Short: "Build the site graph for one or more domains",
	Long: `Build a site graph for each domain: a root node, one node per known
subdomain, and up to --max-links classified links from each homepage.
Domains are crawled one after another; failures are reported together
at the end.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	appCtx := getAppContext(cmd)
	ctx := commandContext(cmd)

	renderer := graphRenderer{}
	format, err := parseOutputFormat(graphFormat)
	if err != nil {
		return err
	}
	renderer.Format = format
	if renderer.Types, err = parseLinkTypes(graphTypes); err != nil {
		return err
	}

	var saver graphSaver
	if graphSave {
		repo, err := newSnapshotRepository(appCtx)
		if err != nil {
			return err
		}
		saver = repo
	}

	var result *multierror.Error
	var stats runStats
	start := time.Now()
	for _, input := range args {
		if err := ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			break
		}
		domain, err := sitegraph.NormalizeDomain(input)
		if err != nil {
			result = multierror.Append(result, &InvalidDomainError{Input: input, Err: err})
			stats.failure()
			continue
		}
		warnIfSubdomain(cmd, appCtx, domain)

		g, err := crawlDomain(ctx, cmd, appCtx, domain)
		if err != nil {
			result = multierror.Append(result, &DomainCrawlError{Domain: domain, Err: err})
			stats.failure()
			continue
		}
		if err := renderer.Render(cmd.OutOrStdout(), domain, g); err != nil {
			result = multierror.Append(result, &DomainCrawlError{Domain: domain, Err: err})
			stats.failure()
			continue
		}
		stats.success(len(g.Nodes), len(g.Links))
		if saver != nil {
			id, err := saveGraph(ctx, saver, domain, g)
			if err != nil {
				result = multierror.Append(result, &DomainCrawlError{Domain: domain, Err: err})
				continue
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s Saved snapshot %s\n", colorSuccess("✓"), id)
		}
	}

	if appCtx.Config.Telemetry {
		if err := recordTelemetry(appCtx, "graph", stats, time.Since(start)); err != nil {
			desugar(appCtx).Warn("failed to record telemetry", zap.Error(err))
		}
	}
	return result.ErrorOrNil()
}

func crawlDomain(ctx context.Context, cmd *cobra.Command, appCtx *AppContext, domain string) (*sitegraph.Graph, error) {
	var onDomain sitegraph.DomainFunc
	var printer *progressPrinter
	if graphProgress {
		printer = newProgressPrinter(cmd.ErrOrStderr(), domain)
		onDomain = printer.OnDomain
	}

	crawler, cleanup := newCrawler(appCtx, onDomain)
	defer cleanup()

	if printer != nil {
		printer.Start()
		defer printer.Stop()
	}
	return crawler.Crawl(ctx, domain)
}

// warnIfSubdomain flags inputs below their registrable domain, where the
// subdomain lookup only sees names under the given host.
func warnIfSubdomain(cmd *cobra.Command, appCtx *AppContext, domain string) {
	reg, err := sitegraph.RegistrableDomain(domain)
	if err != nil || reg == domain {
		return
	}
	desugar(appCtx).Debug("input below registrable domain", zap.String("domain", domain), zap.String("registrable", reg))
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s is under %s; only its own subdomains will be discovered\n", colorWarn("!"), domain, reg)
}

func init() {
	flags := graphCmd.Flags()
	flags.StringVarP(&graphFormat, "format", "f", formatJSON, "output format: json, table or dot")
	flags.BoolVar(&graphSave, "save", false, "store each graph as a snapshot under the results directory")
	flags.BoolVar(&graphProgress, "progress", false, "show a progress spinner while crawling")
	flags.BoolVar(&cliConfig.Telemetry, "telemetry", cliConfig.Telemetry, "append run metrics to telemetry.jsonl in the results directory")
	flags.StringSliceVar(&graphTypes, "types", nil, "link types to list in table output (External, Login, API, Page)")

	flags.IntVar(&cliConfig.Crawl.FetchTimeoutSecs, "fetch-timeout", cliConfig.Crawl.FetchTimeoutSecs, "per-homepage fetch timeout in seconds (0 = none)")
	flags.IntVar(&cliConfig.Crawl.MaxLinks, "max-links", cliConfig.Crawl.MaxLinks, "links kept from each homepage")
	flags.BoolVar(&cliConfig.Crawl.RespectRobots, "respect-robots", cliConfig.Crawl.RespectRobots, "skip homepages disallowed by robots.txt")
	flags.BoolVar(&cliConfig.Crawl.RenderJS, "render-js", cliConfig.Crawl.RenderJS, "render homepages in headless Chrome before extracting links")
	flags.IntVar(&cliConfig.Crawl.JSWaitSecs, "js-wait", cliConfig.Crawl.JSWaitSecs, "seconds to wait for JavaScript after the page is ready")
}
