package cmd

import (
	"time"

	"github.com/khanhnv2901/netrax/internal/sitegraph"
	"github.com/khanhnv2901/netrax/internal/subdomain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultFetchTimeoutSecs     = 15
	defaultSubdomainTimeoutSecs = 30
	defaultSubdomainRatePerMin  = 30
	defaultJSWaitSecs           = 2
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Telemetry bool
	Crawl     CrawlConfig
	Subdomain SubdomainConfig
	Serve     ServeConfig
}

// CrawlConfig captures graph-building options.
type CrawlConfig struct {
	FetchTimeoutSecs int
	MaxLinks         int
	RespectRobots    bool
	RenderJS         bool
	JSWaitSecs       int // Time in seconds to wait for JavaScript to render
}

// SubdomainConfig configures the HackerTarget lookup.
type SubdomainConfig struct {
	BaseURL       string
	TimeoutSecs   int
	RatePerMinute int
}

// ServeConfig holds API server options.
type ServeConfig struct {
	Addr            string
	AuthToken       string
	RateLimit       int
	RateBurst       int
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

type configOverrides struct {
	Telemetry        *bool
	FetchTimeoutSecs *int
	MaxLinks         *int
	RespectRobots    *bool
	RenderJS         *bool
	JSWaitSecs       *int
	SubdomainBaseURL string
	SubdomainRate    *int
	AuthToken        string
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Crawl: CrawlConfig{
			FetchTimeoutSecs: defaultFetchTimeoutSecs,
			MaxLinks:         sitegraph.MaxLinksPerPage,
			RespectRobots:    false,
			RenderJS:         false,
			JSWaitSecs:       defaultJSWaitSecs,
		},
		Subdomain: SubdomainConfig{
			BaseURL:       subdomain.DefaultBaseURL,
			TimeoutSecs:   defaultSubdomainTimeoutSecs,
			RatePerMinute: defaultSubdomainRatePerMin,
		},
		Serve: ServeConfig{
			Addr:            "127.0.0.1:8080",
			RateLimit:       10,
			RateBurst:       20,
			ShutdownTimeout: 30 * time.Second,
		},
	}
}

func loadConfigOverrides() configOverrides {
	overrides := configOverrides{}

	if viper.IsSet("telemetry") {
		val := viper.GetBool("telemetry")
		overrides.Telemetry = &val
	}

	if viper.IsSet("crawl.fetch_timeout_secs") {
		val := viper.GetInt("crawl.fetch_timeout_secs")
		overrides.FetchTimeoutSecs = &val
	}
	if viper.IsSet("crawl.max_links") {
		val := viper.GetInt("crawl.max_links")
		overrides.MaxLinks = &val
	}
	if viper.IsSet("crawl.respect_robots") {
		val := viper.GetBool("crawl.respect_robots")
		overrides.RespectRobots = &val
	}
	if viper.IsSet("crawl.render_js") {
		val := viper.GetBool("crawl.render_js")
		overrides.RenderJS = &val
	}
	if viper.IsSet("crawl.js_wait_secs") {
		val := viper.GetInt("crawl.js_wait_secs")
		overrides.JSWaitSecs = &val
	}
	if viper.IsSet("subdomain.base_url") {
		overrides.SubdomainBaseURL = viper.GetString("subdomain.base_url")
	}
	if viper.IsSet("subdomain.rate_per_minute") {
		val := viper.GetInt("subdomain.rate_per_minute")
		overrides.SubdomainRate = &val
	}
	if viper.IsSet("serve.auth_token") {
		overrides.AuthToken = viper.GetString("serve.auth_token")
	}

	return overrides
}

// applyConfigDefaults merges config file and environment values into the runtime
// config when the user did not explicitly set the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) {
	overrides := loadConfigOverrides()
	flags := cmd.Flags()

	if overrides.Telemetry != nil {
		applyBoolDefault(flags, "telemetry", *overrides.Telemetry, func(v bool) {
			cliConfig.Telemetry = v
		})
	}

	if overrides.FetchTimeoutSecs != nil {
		applyIntDefault(flags, "fetch-timeout", *overrides.FetchTimeoutSecs, func(v int) {
			cliConfig.Crawl.FetchTimeoutSecs = v
		})
	}
	if overrides.MaxLinks != nil {
		applyIntDefault(flags, "max-links", *overrides.MaxLinks, func(v int) {
			cliConfig.Crawl.MaxLinks = v
		})
	}
	if overrides.RespectRobots != nil {
		applyBoolDefault(flags, "respect-robots", *overrides.RespectRobots, func(v bool) {
			cliConfig.Crawl.RespectRobots = v
		})
	}
	if overrides.RenderJS != nil {
		applyBoolDefault(flags, "render-js", *overrides.RenderJS, func(v bool) {
			cliConfig.Crawl.RenderJS = v
		})
	}
	if overrides.JSWaitSecs != nil {
		applyIntDefault(flags, "js-wait", *overrides.JSWaitSecs, func(v int) {
			cliConfig.Crawl.JSWaitSecs = v
		})
	}
	if overrides.SubdomainBaseURL != "" {
		cliConfig.Subdomain.BaseURL = overrides.SubdomainBaseURL
	}
	if overrides.SubdomainRate != nil {
		cliConfig.Subdomain.RatePerMinute = *overrides.SubdomainRate
	}
	if overrides.AuthToken != "" {
		setStringFlagIfUnset(flags, "auth-token", overrides.AuthToken)
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}

func secondsOrZero(secs int) time.Duration {
	if secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
