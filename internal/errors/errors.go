// Package errors provides centralized error definitions and error handling utilities
// for the edit harness. It defines sentinel errors, domain-specific error types,
// and classification helpers used to decide whether a failed patch is logged or
// propagated.
//
// # Error Types
//
// Domain-specific errors:
//   - PatchError: a patch attempt against a method body failed, either because the
//     body did not have the expected shape (structural mismatch) or because the
//     patch code faulted
//   - ResolutionError: a method named by an edit could not be resolved on the host
//   - EditError: an edit was loaded or unloaded out of order
//
// Semantic errors:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or state
//
// # Usage
//
//	err := errors.NewPatchError("QuickStackILEdit", errors.ErrStructuralMismatch).
//	    WithMethod("Terraria.Player::QuickStackAllChests").
//	    WithReason("expected exactly 2 target locations, found 1")
//
//	if errors.IsStructural(err) { ... }
//
//	var patchErr *errors.PatchError
//	if errors.As(err, &patchErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Patch-related sentinel errors
var (
	// ErrStructuralMismatch indicates that a method body did not have the shape
	// a patch expected. The PatchError's Reason says which expectation failed.
	ErrStructuralMismatch = New("method body did not match the expected shape")
	// ErrPatchPanicked indicates that patch code faulted while editing the body.
	ErrPatchPanicked = New("patch panicked")
)

// Resolution-related sentinel errors
var (
	// ErrMethodNotFound indicates that no method matched the lookup.
	ErrMethodNotFound = New("method not found")
	// ErrAmbiguousMethod indicates that more than one method matched the lookup.
	ErrAmbiguousMethod = New("ambiguous method match")
	// ErrNoMethodBody indicates that a method has no instruction body to compile.
	ErrNoMethodBody = New("method has no body")
)

// Edit lifecycle sentinel errors
var (
	// ErrEditAlreadyLoaded indicates that Load was called twice without Unload.
	ErrEditAlreadyLoaded = New("edit already loaded")
	// ErrEditNotFound indicates that no registered edit has the given name.
	ErrEditNotFound = New("edit not found")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// EditHarnessError is the base interface for all errors defined here.
// It extends the standard error interface with additional methods for
// error handling and classification.
type EditHarnessError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// PatchError represents a failed patch attempt. Cause is ErrStructuralMismatch
// or ErrPatchPanicked; Reason is the human-readable diagnostic produced by the
// patch.
//
// Example:
//
//	err := errors.NewPatchError("QuickStackILEdit", errors.ErrStructuralMismatch).
//	    WithMethod("Terraria.Player::QuickStackAllChests").
//	    WithReason("could not find any calls to Terraria.Player::useVoidBag")
//	fmt.Println(err)
//	// "patch error [edit=QuickStackILEdit, method=Terraria.Player::QuickStackAllChests]:
//	//  could not find any calls to Terraria.Player::useVoidBag"
type PatchError struct {
	baseError
	Edit   string
	Method string
	Reason string
}

// NewPatchError creates a new PatchError for the named edit.
func NewPatchError(edit string, cause error) *PatchError {
	return &PatchError{
		baseError: baseError{
			message:    "patch attempt failed",
			cause:      cause,
			severity:   SeverityWarning,
			userFacing: false,
		},
		Edit: edit,
	}
}

// WithMethod adds the patched method to the error context.
func (e *PatchError) WithMethod(method string) *PatchError {
	e.Method = method
	return e
}

// WithReason sets the diagnostic reason reported by the patch.
func (e *PatchError) WithReason(reason string) *PatchError {
	e.Reason = reason
	return e
}

// WithSeverity sets the error severity.
func (e *PatchError) WithSeverity(s Severity) *PatchError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *PatchError) Error() string {
	var parts []string
	if e.Edit != "" {
		parts = append(parts, fmt.Sprintf("edit=%s", e.Edit))
	}
	if e.Method != "" {
		parts = append(parts, fmt.Sprintf("method=%s", e.Method))
	}

	prefix := "patch error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("patch error [%s]", strings.Join(parts, ", "))
	}

	msg := e.Reason
	if msg == "" {
		msg = e.message
		if e.cause != nil {
			return fmt.Sprintf("%s: %s: %v", prefix, msg, e.cause)
		}
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

// Is checks if this error matches the target.
func (e *PatchError) Is(target error) bool {
	if _, ok := target.(*PatchError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ResolutionError represents a method lookup that did not resolve to exactly
// one public instance method.
//
// Example:
//
//	err := errors.NewResolutionError("Terraria.Player", "useVoidBag", errors.ErrMethodNotFound)
//	fmt.Println(err) // "resolution error [Terraria.Player::useVoidBag]: method not found"
type ResolutionError struct {
	baseError
	Type string
	Name string
}

// NewResolutionError creates a new ResolutionError.
func NewResolutionError(typeName, name string, cause error) *ResolutionError {
	return &ResolutionError{
		baseError: baseError{
			message:    "could not resolve method",
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Type: typeName,
		Name: name,
	}
}

// Error returns the formatted error message.
func (e *ResolutionError) Error() string {
	prefix := fmt.Sprintf("resolution error [%s::%s]", e.Type, e.Name)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ResolutionError) Is(target error) bool {
	if _, ok := target.(*ResolutionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// EditError represents an edit lifecycle failure (load/unload ordering, or a
// load that could not complete).
type EditError struct {
	baseError
	Edit string
}

// NewEditError creates a new EditError.
func NewEditError(edit, message string, cause error) *EditError {
	return &EditError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
		Edit: edit,
	}
}

// Error returns the formatted error message.
func (e *EditError) Error() string {
	prefix := "edit error"
	if e.Edit != "" {
		prefix = fmt.Sprintf("edit error [edit=%s]", e.Edit)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *EditError) Is(target error) bool {
	if _, ok := target.(*EditError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("edit", "QuickStackILEdit")
//	fmt.Println(err) // "edit 'QuickStackILEdit' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("failure policy must be suppress or propagate")
//	err = err.WithField("patching.failure_policy").WithValue("ignore")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsStructural returns true if err reports that a method body did not have the
// shape a patch expected. Structural mismatches abort only the patch attempt.
func IsStructural(err error) bool {
	if err == nil {
		return false
	}
	return Is(err, ErrStructuralMismatch)
}

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var harnessErr EditHarnessError
	if As(err, &harnessErr) {
		return harnessErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement EditHarnessError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var harnessErr EditHarnessError
	if As(err, &harnessErr) {
		return harnessErr.Severity()
	}
	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to load edit")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to compile %s", method)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
