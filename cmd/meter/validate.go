package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/meter/pkg/pricing"
	"mercator-hq/meter/pkg/providers"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and pricing",
	Long: `Load the configuration file and the pricing table and report problems
without calling any provider. Providers without credentials are listed; they
only fail when a query uses them.

Examples:
  meter validate
  meter validate --config /etc/meter/meter.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "✓ Configuration valid")

	table, err := pricing.Load(cfg.Pricing.File)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Pricing table loaded (%d entries)\n", table.Len())

	settings := cfg.AllProviderSettings()
	for _, t := range providers.Types {
		model := cfg.DefaultModel(t)
		switch {
		case t == providers.TypeLocal || settings[t].APIKey != "":
			fmt.Fprintf(out, "✓ %s: default model %s\n", t, model)
		default:
			fmt.Fprintf(out, "- %s: no credentials\n", t)
		}
		if _, err := table.Lookup(string(t), model); err != nil {
			fmt.Fprintf(out, "  warning: %s/%s has no price, requests will be untracked\n", t, model)
		}
	}
	return nil
}
