// Package health serves liveness, readiness and version endpoints for
// meter serve.
//
// Readiness runs registered checks concurrently, each bounded by the
// checker timeout:
//
//	checker := health.New(2 * time.Second)
//	checker.Register("pricing", health.PricingCheck(table))
//	checker.Register("credentials", health.CredentialsCheck(cfg.AllProviderSettings()))
//	health.Register(mux, checker, health.NewVersionInfo(version, commit, date))
package health
