package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/meter/pkg/cli"
	"mercator-hq/meter/pkg/pricing"
	"mercator-hq/meter/pkg/processing/costs"
	"mercator-hq/meter/pkg/processing/tokens"
	"mercator-hq/meter/pkg/providers"
	"mercator-hq/meter/pkg/usage"
)

var pricingFlags struct {
	provider         string
	model            string
	format           string
	promptTokens     int64
	completionTokens int64
	reasoningTokens  int64
	cachedTokens     int64
	text             string
}

var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Inspect the pricing table",
	Long: `Inspect the effective pricing table: the built-in prices, overridden per
provider by pricing.file when it is set. Prices are USD per unit_size tokens.`,
}

var pricingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pricing entries",
	Long: `List the pricing entries of every provider, or of one provider.

Examples:
  meter pricing list
  meter pricing list --provider gemini --format json`,
	RunE: runPricingList,
}

var pricingCostCmd = &cobra.Command{
	Use:   "cost",
	Short: "Price a token usage",
	Long: `Compute the cost of a token usage without calling a provider.

Reasoning tokens are part of the completion tokens. Cached tokens are part of
the prompt tokens. With --text, prompt tokens are estimated from the text and
completion tokens default to an estimate too; explicit token flags win.

Examples:
  meter pricing cost --provider openai --model gpt-4o --prompt-tokens 1000 --completion-tokens 500
  meter pricing cost --provider openai --model o1-mini --prompt-tokens 100 --completion-tokens 300 --reasoning-tokens 200
  meter pricing cost --provider anthropic --text "Summarize the plot of Hamlet"`,
	RunE: runPricingCost,
}

func init() {
	rootCmd.AddCommand(pricingCmd)
	pricingCmd.AddCommand(pricingListCmd)
	pricingCmd.AddCommand(pricingCostCmd)

	pricingCmd.PersistentFlags().StringVar(&pricingFlags.provider, "provider", "", "provider name")
	pricingCmd.PersistentFlags().StringVar(&pricingFlags.format, "format", "text", "output format: text, json, csv")

	pricingCostCmd.Flags().StringVarP(&pricingFlags.model, "model", "m", "", "model (default per provider)")
	pricingCostCmd.Flags().Int64Var(&pricingFlags.promptTokens, "prompt-tokens", 0, "prompt tokens")
	pricingCostCmd.Flags().Int64Var(&pricingFlags.completionTokens, "completion-tokens", 0, "completion tokens")
	pricingCostCmd.Flags().Int64Var(&pricingFlags.reasoningTokens, "reasoning-tokens", 0, "reasoning tokens (subset of completion tokens)")
	pricingCostCmd.Flags().Int64Var(&pricingFlags.cachedTokens, "cached-tokens", 0, "cached prompt tokens (subset of prompt tokens)")
	pricingCostCmd.Flags().StringVar(&pricingFlags.text, "text", "", "estimate tokens from a prompt text")
}

func runPricingList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(pricingFlags.format)
	if err != nil {
		return err
	}

	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	table, err := pricing.Load(cfg.Pricing.File)
	if err != nil {
		return fmt.Errorf("failed to load pricing: %w", err)
	}

	provider := ""
	if pricingFlags.provider != "" {
		t, err := providers.ParseType(pricingFlags.provider)
		if err != nil {
			return err
		}
		provider = t.String()
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), cli.PricingTable(table, provider))
}

func runPricingCost(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(pricingFlags.format)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	provider := providers.Type(cfg.Request.DefaultProvider)
	if pricingFlags.provider != "" {
		if provider, err = providers.ParseType(pricingFlags.provider); err != nil {
			return err
		}
	}

	model := pricingFlags.model
	if model == "" {
		model = cfg.DefaultModel(provider)
	}

	table, err := pricing.Load(cfg.Pricing.File)
	if err != nil {
		return fmt.Errorf("failed to load pricing: %w", err)
	}

	promptTokens, completionTokens := pricingFlags.promptTokens, pricingFlags.completionTokens
	if pricingFlags.text != "" {
		est, err := tokens.NewSimpleEstimator(nil).EstimateRequest(&providers.CompletionRequest{
			Model:    model,
			Messages: []providers.Message{{Role: providers.RoleUser, Content: pricingFlags.text}},
		})
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("prompt-tokens") {
			promptTokens = est.PromptTokens
		}
		if !cmd.Flags().Changed("completion-tokens") {
			completionTokens = est.EstimatedCompletionTokens
		}
		logger.Info("estimated tokens from text",
			"model", model,
			"prompt_tokens", promptTokens,
			"completion_tokens", completionTokens,
		)
	}

	var opts []usage.Option
	if cmd.Flags().Changed("reasoning-tokens") {
		opts = append(opts, usage.WithReasoning(pricingFlags.reasoningTokens))
	}
	if pricingFlags.cachedTokens > 0 {
		opts = append(opts, usage.WithCachedPrompt(pricingFlags.cachedTokens))
	}
	rec, err := usage.New(promptTokens, completionTokens, opts...)
	if err != nil {
		return cli.NewInputError("token counts", err)
	}

	cost, err := costs.NewCalculator(table).Calculate(provider, model, rec)
	if err != nil {
		return err
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), cli.CostTable(cost))
}
