package health

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/meter/pkg/pricing"
	"mercator-hq/meter/pkg/providers"
)

// PricingCheck fails when the pricing table is missing or empty.
func PricingCheck(table *pricing.Table) CheckFunc {
	return func(ctx context.Context) error {
		if table == nil || table.Len() == 0 {
			return errors.New("pricing table is empty")
		}
		return nil
	}
}

// CredentialsCheck fails when no provider has usable credentials. Local
// servers need no key and always count.
func CredentialsCheck(configs map[providers.Type]providers.ProviderConfig) CheckFunc {
	return func(ctx context.Context) error {
		for t, cfg := range configs {
			if t == providers.TypeLocal || cfg.APIKey != "" {
				return nil
			}
		}
		return fmt.Errorf("no provider credentials configured")
	}
}
