package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/khanhnv2901/netrax/internal/shared/constants"
	"github.com/khanhnv2901/netrax/internal/sitegraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zaptest"
)

// setupTestAppContext installs an AppContext rooted in a temp results dir.
func setupTestAppContext(t *testing.T) *AppContext {
	t.Helper()

	original := globalAppContext
	t.Cleanup(func() { globalAppContext = original })

	appCtx := &AppContext{
		Logger:     zaptest.NewLogger(t).Sugar(),
		ResultsDir: filepath.Join(t.TempDir(), "results"),
		Config:     newCLIConfig(),
	}
	globalAppContext = appCtx
	return appCtx
}

// newTestCommand returns a bare command carrying appCtx with captured output.
func newTestCommand(t *testing.T, appCtx *AppContext) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetContext(context.Background())
	storeAppContext(cmd, appCtx)
	return cmd, stdout, stderr
}

type staticSource map[string][]string

func (s staticSource) Subdomains(_ context.Context, domain string) ([]string, error) {
	return s[domain], nil
}

type sourceFunc func(ctx context.Context, domain string) ([]string, error)

func (f sourceFunc) Subdomains(ctx context.Context, domain string) ([]string, error) {
	return f(ctx, domain)
}

type pageMap map[string]string

func (p pageMap) FetchPage(_ context.Context, pageURL string) (string, error) {
	body, ok := p[pageURL]
	if !ok {
		return "", errors.New("connection refused")
	}
	return body, nil
}

// stubCrawler replaces the crawler factory for the duration of the test.
// The returned counter reports how many crawlers were built with a progress hook.
func stubCrawler(t *testing.T, source sitegraph.SubdomainSource, fetcher sitegraph.PageFetcher) *int {
	t.Helper()
	original := newCrawler
	t.Cleanup(func() { newCrawler = original })

	hooked := 0
	newCrawler = func(appCtx *AppContext, onDomain sitegraph.DomainFunc) (*sitegraph.Crawler, func()) {
		if onDomain != nil {
			hooked++
		}
		return &sitegraph.Crawler{
			Sources:  source,
			Fetcher:  fetcher,
			Logger:   desugar(appCtx),
			OnDomain: onDomain,
		}, func() {}
	}
	return &hooked
}

func resetGraphFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		graphFormat = formatJSON
		graphSave = false
		graphProgress = false
		graphTypes = nil
	})
	graphFormat = formatJSON
	graphSave = false
	graphProgress = false
	graphTypes = nil
}

func snapshotDir(appCtx *AppContext) string {
	return filepath.Join(appCtx.ResultsDir, constants.SnapshotDirName)
}
