// Package services provides domain services that work across aggregates or
// need collaborators an aggregate should not hold.
//
// The package includes:
//   - PricingEngine: turns leg distances into a fee breakdown and quotes routes
//   - FinancialLedger: recomputes courier balances and bulk COD hand-overs
//   - OrderDispatcher: offers a waiting order to the nearest free courier
package services
