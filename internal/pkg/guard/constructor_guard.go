// Package guard holds the constructor guard embedded by value objects, entities
// and commands that must only be built through their constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as built by its constructor. The zero value is
// "not constructed", so a struct literal that skips the constructor fails Validate.
//
// Example usage:
//
//	type Quote struct {
//	    total int64
//	    guard guard.ConstructorGuard
//	}
//
//	func NewQuote(total int64) (Quote, error) {
//	    if total < 0 {
//	        return Quote{}, errors.New("total cannot be negative")
//	    }
//	    return Quote{total: total, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (q Quote) Validate() error {
//	    return q.guard.Validate(ErrQuoteNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard was not created by NewConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
