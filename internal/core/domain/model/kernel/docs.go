// Package kernel provides the shared value objects of the dispatch domain.
//
// The package includes:
//   - UUID: identifiers of orders and couriers
//   - Location: a latitude/longitude pair with great-circle distance
//   - Actor and Role: the explicit identity passed with every mutation
//
// Values are immutable and must be built through their constructors; the zero
// value of each type fails Validate.
package kernel
