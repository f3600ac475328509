package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mercator-hq/meter/pkg/dispatch"
	"mercator-hq/meter/pkg/ledger"
	"mercator-hq/meter/pkg/ledger/export"
	"mercator-hq/meter/pkg/pricing"
	"mercator-hq/meter/pkg/processing/costs"
	"mercator-hq/meter/pkg/providerfactory"
)

// noResponseMessage is printed when the provider call fails.
const noResponseMessage = "Failed to get response from LLM"

var queryFlags struct {
	prompt   string
	provider string
	model    string
	image    string
	session  string
	usage    bool
	export   string
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Send a prompt to an LLM provider",
	Long: `Send a prompt to an LLM provider and print the response.

The request's token usage is priced and recorded in the ledger. A provider
failure prints "Failed to get response from LLM"; configuration errors such as
an unsupported provider or a missing API key exit with status 1.

Examples:
  # Default provider and model
  meter query --prompt "Hello"

  # Anthropic with a specific model, showing usage and cost
  meter query --provider anthropic --model claude-3-5-haiku-20241022 --prompt "Hi" --usage

  # Attach an image and export the ledger entry
  meter query --provider openai --image photo.jpg --prompt "Describe this" --export usage.csv`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVarP(&queryFlags.prompt, "prompt", "p", "", "prompt text (required)")
	queryCmd.Flags().StringVar(&queryFlags.provider, "provider", "", "provider: openai, azure, deepseek, anthropic, gemini, local (default from config)")
	queryCmd.Flags().StringVarP(&queryFlags.model, "model", "m", "", "model override (default per provider)")
	queryCmd.Flags().StringVar(&queryFlags.image, "image", "", "path of an image to attach")
	queryCmd.Flags().StringVar(&queryFlags.session, "session", "", "ledger session id (default generated)")
	queryCmd.Flags().BoolVar(&queryFlags.usage, "usage", false, "print token usage and cost")
	queryCmd.Flags().StringVar(&queryFlags.export, "export", "", "write the ledger to a .json, .csv or .db file")

	_ = queryCmd.MarkFlagRequired("prompt")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	table, err := pricing.Load(cfg.Pricing.File)
	if err != nil {
		return fmt.Errorf("failed to load pricing: %w", err)
	}

	manager := providerfactory.NewManager(cfg.AllProviderSettings())
	defer manager.Close()

	tracker := ledger.NewTracker(ledger.WithSessionID(queryFlags.session))
	dispatcher := dispatch.New(
		dispatch.ConfigFrom(cfg),
		manager,
		costs.NewCalculator(table),
		tracker,
		dispatch.WithLogger(logger.Slog()),
	)

	out := cmd.OutOrStdout()
	result, err := dispatcher.Query(cmd.Context(), dispatch.Query{
		Prompt:    queryFlags.prompt,
		Provider:  queryFlags.provider,
		Model:     queryFlags.model,
		ImagePath: queryFlags.image,
	})
	if err != nil {
		if errors.Is(err, dispatch.ErrNoResponse) {
			logger.ErrorContext(cmd.Context(), "query failed", "error", err)
			fmt.Fprintln(out, noResponseMessage)
			return nil
		}
		return err
	}

	fmt.Fprintln(out, result.Content)

	if queryFlags.usage {
		printUsage(out, result)
	}

	if queryFlags.export != "" {
		format := export.FormatFromPath(queryFlags.export, cfg.Ledger.Export.Format)
		if err := export.WriteFile(cmd.Context(), queryFlags.export, format, cfg.Ledger.Export.SQLiteDriver, tracker.Snapshot()); err != nil {
			return err
		}
		logger.Info("ledger exported", "path", queryFlags.export, "format", format, "records", tracker.Len())
	}

	return nil
}

func printUsage(w io.Writer, result *dispatch.Result) {
	fmt.Fprintln(w)
	if !result.Tracked {
		fmt.Fprintf(w, "Usage: not tracked (%s)\n", result.UntrackedReason)
		return
	}

	u := result.Record.Usage()
	fmt.Fprintf(w, "Usage: prompt=%d completion=%d total=%d", u.PromptTokens, u.CompletionTokens, u.TotalTokens)
	if u.HasReasoning() {
		fmt.Fprintf(w, " reasoning=%d", u.Reasoning())
	}
	if u.CachedPromptTokens > 0 {
		fmt.Fprintf(w, " cached=%d", u.CachedPromptTokens)
	}
	fmt.Fprintln(w)

	pricedAs := result.Cost.PricedAs
	if result.Cost.Fallback {
		pricedAs += ", fallback"
	}
	fmt.Fprintf(w, "Cost: $%s (%s/%s priced as %s)\n", result.Cost.Display(), result.Provider, result.Model, pricedAs)
	fmt.Fprintf(w, "Thinking time: %.2fs\n", result.Record.ThinkingTime().Seconds())
}
