// Package courier provides the Courier aggregate root: the riders orders are
// assigned to.
//
// The package includes:
//   - Courier: identity, contact, availability flags and last reported position
//
// Key business rules:
//   - Couriers must have a valid unique identifier, name and contact
//   - Only active couriers may receive new assignments
//   - Automatic dispatch additionally needs the courier online with a known position
//   - Presence goes stale when the courier stops reporting; a job flips it offline
package courier
