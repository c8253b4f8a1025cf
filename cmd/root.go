package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/khanhnv2901/netrax/internal/shared/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "NETRAX"

var cfgFile string
var verbose bool
var globalAppContext *AppContext

// AppContext carries per-invocation runtime state to subcommands.
type AppContext struct {
	Logger     *zap.SugaredLogger
	ResultsDir string
	Config     *CLIConfig
}

type appContextKey struct{}

var rootCmd = &cobra.Command{
	Use:           "netrax",
	Short:         "Map a domain's subdomains and homepage links as a site graph",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		appCtx, err := initRuntime(cmd)
		if err != nil {
			return err
		}
		storeAppContext(cmd, appCtx)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appCtx := getAppContext(cmd); appCtx != nil && appCtx.Logger != nil {
			_ = appCtx.Logger.Sync()
		}
	},
}

func initRuntime(cmd *cobra.Command) (*AppContext, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".netrax")
		viper.SetConfigType("yaml")
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	resultsDir := viper.GetString("results_dir")
	if resultsDir == "" {
		resultsDir = "./results"
	}
	if err := os.MkdirAll(resultsDir, constants.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	if abs, err := filepath.Abs(resultsDir); err == nil {
		resultsDir = abs
	}

	l, err := newLogger(verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger := l.Sugar()

	applyConfigDefaults(cmd)
	logger.Debugw("runtime ready", "results_dir", resultsDir, "config", viper.ConfigFileUsed())

	return &AppContext{
		Logger:     logger,
		ResultsDir: resultsDir,
		Config:     cliConfig,
	}, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func storeAppContext(cmd *cobra.Command, appCtx *AppContext) {
	globalAppContext = appCtx
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appContextKey{}, appCtx))
}

func getAppContext(cmd *cobra.Command) *AppContext {
	if cmd != nil {
		if ctx := cmd.Context(); ctx != nil {
			if appCtx, ok := ctx.Value(appContextKey{}).(*AppContext); ok {
				return appCtx
			}
		}
	}
	return globalAppContext
}

// commandContext returns the command's context, falling back to Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Execute runs the root command; SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, colorError("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.netrax.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(subdomainsCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(telemetryCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
