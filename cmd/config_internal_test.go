package cmd

import (
	"testing"
	"time"

	"github.com/khanhnv2901/netrax/internal/sitegraph"
	"github.com/khanhnv2901/netrax/internal/subdomain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestApplyIntDefault(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("fetch-timeout", 0, "")

	var applied int
	applyIntDefault(flags, "fetch-timeout", 15, func(v int) {
		applied = v
	})
	if applied != 15 {
		t.Fatalf("expected setter to receive 15, got %d", applied)
	}

	// When flag already set, setter should not run.
	if err := flags.Set("fetch-timeout", "7"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	applied = 0
	applyIntDefault(flags, "fetch-timeout", 20, func(v int) {
		applied = v
	})
	if applied != 0 {
		t.Fatalf("setter should not run when flag overridden, got %d", applied)
	}
}

func TestApplyBoolDefault(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("render-js", false, "")

	applied := false
	applyBoolDefault(flags, "render-js", true, func(v bool) {
		applied = v
	})
	if !applied {
		t.Fatal("expected setter to run with true")
	}

	if err := flags.Set("render-js", "false"); err != nil {
		t.Fatalf("failed to set bool flag: %v", err)
	}
	applied = true
	applyBoolDefault(flags, "render-js", true, func(v bool) {
		applied = v
	})
	if !applied {
		t.Fatalf("setter should not change value when flag already set")
	}
}

func TestSetStringFlagIfUnset(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("auth-token", "", "")

	setStringFlagIfUnset(flags, "auth-token", "from-config")
	if got := flags.Lookup("auth-token").Value.String(); got != "from-config" {
		t.Fatalf("expected token from config, got %s", got)
	}

	if err := flags.Set("auth-token", "user-provided"); err != nil {
		t.Fatalf("failed to set token: %v", err)
	}
	setStringFlagIfUnset(flags, "auth-token", "new-default")
	if got := flags.Lookup("auth-token").Value.String(); got != "user-provided" {
		t.Fatalf("expected token to remain user-provided, got %s", got)
	}
}

func TestNewCLIConfigDefaults(t *testing.T) {
	cfg := newCLIConfig()
	if cfg.Crawl.FetchTimeoutSecs != defaultFetchTimeoutSecs {
		t.Fatalf("unexpected fetch timeout default: %d", cfg.Crawl.FetchTimeoutSecs)
	}
	if cfg.Crawl.MaxLinks != sitegraph.MaxLinksPerPage {
		t.Fatalf("unexpected max links: %d", cfg.Crawl.MaxLinks)
	}
	if cfg.Crawl.RespectRobots || cfg.Crawl.RenderJS {
		t.Fatalf("robots and JS rendering must be opt-in")
	}
	if cfg.Crawl.JSWaitSecs != defaultJSWaitSecs {
		t.Fatalf("unexpected JS wait: %d", cfg.Crawl.JSWaitSecs)
	}
	if cfg.Subdomain.BaseURL != subdomain.DefaultBaseURL {
		t.Fatalf("unexpected subdomain base url: %s", cfg.Subdomain.BaseURL)
	}
	if cfg.Serve.Addr != "127.0.0.1:8080" || cfg.Serve.ShutdownTimeout != 30*time.Second {
		t.Fatalf("unexpected serve defaults: %+v", cfg.Serve)
	}
	if cfg.Telemetry {
		t.Fatal("telemetry must be opt-in")
	}
}

func TestApplyConfigDefaultsRespectsFlags(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	original := *cliConfig
	t.Cleanup(func() { *cliConfig = original })

	viper.Set("crawl.max_links", 3)
	viper.Set("crawl.render_js", true)
	viper.Set("crawl.js_wait_secs", 5)
	viper.Set("subdomain.rate_per_minute", 6)
	viper.Set("serve.auth_token", "config-token")
	viper.Set("telemetry", true)

	cmd := &cobra.Command{Use: "graph"}
	cmd.Flags().IntVar(&cliConfig.Crawl.MaxLinks, "max-links", 10, "")
	cmd.Flags().BoolVar(&cliConfig.Crawl.RenderJS, "render-js", false, "")
	cmd.Flags().String("auth-token", "", "")
	if err := cmd.Flags().Set("max-links", "8"); err != nil {
		t.Fatal(err)
	}

	applyConfigDefaults(cmd)

	if cliConfig.Crawl.MaxLinks != 8 {
		t.Fatalf("explicit flag should win, got %d", cliConfig.Crawl.MaxLinks)
	}
	if !cliConfig.Crawl.RenderJS || cliConfig.Crawl.JSWaitSecs != 5 {
		t.Fatalf("config values should fill unset flags: %+v", cliConfig.Crawl)
	}
	if cliConfig.Subdomain.RatePerMinute != 6 {
		t.Fatalf("unexpected rate: %d", cliConfig.Subdomain.RatePerMinute)
	}
	if got, _ := cmd.Flags().GetString("auth-token"); got != "config-token" {
		t.Fatalf("expected auth token from config, got %q", got)
	}
	if !cliConfig.Telemetry {
		t.Fatal("expected telemetry from config")
	}
}

func TestSecondsOrZero(t *testing.T) {
	if secondsOrZero(0) != 0 || secondsOrZero(-3) != 0 {
		t.Fatal("non-positive seconds must map to zero")
	}
	if secondsOrZero(2) != 2*time.Second {
		t.Fatal("expected two seconds")
	}
}
