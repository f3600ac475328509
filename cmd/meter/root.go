package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/meter/pkg/cli"
	"mercator-hq/meter/pkg/config"
	"mercator-hq/meter/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "meter",
	Short: "Meter - unified LLM client with usage and cost accounting",
	Long: `Meter sends prompts to several LLM providers through one interface and
accounts for every request: token usage is normalized across providers,
priced with an exact decimal pricing table, and recorded in a ledger.

Supported providers: openai, azure, deepseek, anthropic, gemini, local.

Credentials are read from the environment (OPENAI_API_KEY, AZURE_OPENAI_API_KEY,
DEEPSEEK_API_KEY, ANTHROPIC_API_KEY, GOOGLE_API_KEY) and from .env.local, .env
and .env.example in the working directory.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := cli.SetupSignalHandler(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default "+config.DefaultPath+" when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads env files and configuration, and installs the logger as
// the slog default. Logs go to the command's error stream.
func loadConfig(cmd *cobra.Command) (*config.Config, *logging.Logger, error) {
	if _, err := config.LoadEnvFiles("."); err != nil {
		return nil, nil, cli.NewInputError("env file", err)
	}

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	logCfg := logging.FromConfig(cfg.Telemetry.Logging, verbose)
	logCfg.Writer = cmd.ErrOrStderr()
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, cli.NewInputError("telemetry.logging", err)
	}
	logger.SetDefault()

	return cfg, logger, nil
}
