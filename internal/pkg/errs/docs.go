// Package errs provides the typed errors shared by the dispatch domain, its use
// cases and its adapters.
//
// Validation errors:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError
//
// Dispatch taxonomy:
//   - ObjectNotFoundError: the referenced order or courier does not exist
//   - InvalidTransitionError: status change not permitted for the actor or current status
//   - PreconditionFailedError: a missing dependency (courier, proof photo) blocks the operation
//   - AlreadySettledError: a ledger operation found nothing left to settle
//   - ConcurrentModificationError: a compare-and-swap write lost against another writer
//
// Each type pairs with a sentinel (ErrObjectNotFound, ErrInvalidTransition, ...)
// returned from Unwrap, so callers classify with errors.Is and inspect details
// with errors.As.
package errs
