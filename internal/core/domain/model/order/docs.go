// Package order holds the Order aggregate: one delivery from booking to
// payout.
//
// The package includes:
//   - Order: identity, stops, tier, fee, courier assignment and money owed
//   - Status: the closed delivery state set and its legacy aliases
//   - transition rules: which actor may move an order to which status
//   - CashAdvance and COD: the two money flows tracked per order
//   - AuditEntry: the append-only history written by every mutation
//
// Key business rules:
//   - Couriers advance one step at a time and only on orders assigned to them
//   - Admins may override the forward order but not the assignment and proof gates
//   - Terminal statuses (DELIVERED, REJECTED, CANCELLED) accept no transition
//   - COD collection and advance reimbursement are one-way and recorded once
package order
