package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound         = errors.New("object not found")
	ErrValueIsInvalid         = errors.New("value is invalid")
	ErrValueIsOutOfRange      = errors.New("value is out of range")
	ErrValueIsRequired        = errors.New("value is required")
	ErrInvalidTransition      = errors.New("invalid transition")
	ErrPreconditionFailed     = errors.New("precondition failed")
	ErrAlreadySettled         = errors.New("already settled")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrAlreadyExists          = errors.New("already exists")
	ErrCorruptData            = errors.New("corrupt stored data")
)

// ObjectNotFoundError reports a missing aggregate. It is the NotFound member of
// the dispatch error taxonomy.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, sanitize(fmt.Sprintf("%s", e.ID)), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(fmt.Sprintf("%s", e.ID)))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max))
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// InvalidTransitionError is returned when the actor's role or the order's
// current status does not permit the requested status change.
type InvalidTransitionError struct {
	From   string
	To     string
	Reason string
}

func NewInvalidTransitionError(from, to, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Reason: reason}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s: %s", ErrInvalidTransition, e.From, e.To, sanitize(e.Reason))
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PreconditionFailedError is returned when a structurally valid operation is
// blocked by a missing dependency the caller has to supply first.
type PreconditionFailedError struct {
	Precondition string
}

func NewPreconditionFailedError(precondition string) *PreconditionFailedError {
	return &PreconditionFailedError{Precondition: precondition}
}

func (e *PreconditionFailedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPreconditionFailed, sanitize(e.Precondition))
}

func (e *PreconditionFailedError) Unwrap() error {
	return ErrPreconditionFailed
}

// AlreadySettledError tells the caller a ledger operation changed nothing.
type AlreadySettledError struct {
	Entry string
}

func NewAlreadySettledError(entry string) *AlreadySettledError {
	return &AlreadySettledError{Entry: entry}
}

func (e *AlreadySettledError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAlreadySettled, e.Entry)
}

func (e *AlreadySettledError) Unwrap() error {
	return ErrAlreadySettled
}

// ConcurrentModificationError is returned when a compare-and-swap write finds
// the stored version moved on since the aggregate was read.
type ConcurrentModificationError struct {
	ParamName       string
	ID              any
	ExpectedVersion int
}

func NewConcurrentModificationError(paramName string, id any, expectedVersion int) *ConcurrentModificationError {
	return &ConcurrentModificationError{ParamName: paramName, ID: id, ExpectedVersion: expectedVersion}
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s: %s %v is no longer at version %d",
		ErrConcurrentModification, e.ParamName, e.ID, e.ExpectedVersion)
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}

func sanitize(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}

// AlreadyExistsError is returned when an insert hits an existing identifier.
type AlreadyExistsError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewAlreadyExistsError(paramName string, id any) *AlreadyExistsError {
	return &AlreadyExistsError{ParamName: paramName, ID: id}
}

func NewAlreadyExistsErrorWithCause(paramName string, id any, cause error) *AlreadyExistsError {
	return &AlreadyExistsError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s: %s %v", ErrAlreadyExists, e.ParamName, e.ID)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// CorruptDataError reports a stored record that no longer decodes into a valid
// aggregate. The cause is kept for logging but not unwrapped, so a corrupt row
// never passes for a caller mistake.
type CorruptDataError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewCorruptDataError(paramName string, id any, cause error) *CorruptDataError {
	return &CorruptDataError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("%s: %s %v: %v", ErrCorruptData, e.ParamName, e.ID, e.Cause)
}

func (e *CorruptDataError) Unwrap() error {
	return ErrCorruptData
}
