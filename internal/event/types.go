package event

import (
	"time"

	"github.com/CornHusker89/MagicStorage/internal/il"
)

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "patch.applied", "edit.loaded")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Compile Events
// -----------------------------------------------------------------------------

// CompileEventType returns the event type published when method is compiled.
// Each method has its own channel so a hook only sees the method it targets.
func CompileEventType(method il.MethodRef) string {
	return "il:" + method.String()
}

// MethodCompilingEvent is published once per compile pass of a method. Handlers
// edit Context.Body in place; a handler that needs the compile to fail calls
// Fail instead of panicking.
type MethodCompilingEvent struct {
	baseEvent
	Context *il.Context
	errs    []error
}

// NewMethodCompilingEvent creates a MethodCompilingEvent for ctx.
func NewMethodCompilingEvent(ctx *il.Context) *MethodCompilingEvent {
	return &MethodCompilingEvent{
		baseEvent: newBaseEvent(CompileEventType(ctx.Method)),
		Context:   ctx,
	}
}

// Fail records err against this compile pass.
func (e *MethodCompilingEvent) Fail(err error) {
	if err != nil {
		e.errs = append(e.errs, err)
	}
}

// Errors returns the errors recorded by handlers, in order.
func (e *MethodCompilingEvent) Errors() []error {
	return e.errs
}

// -----------------------------------------------------------------------------
// Patch Events
// -----------------------------------------------------------------------------

// PatchAppliedEvent is emitted when an edit patched a method body.
type PatchAppliedEvent struct {
	baseEvent
	Edit        string // Edit that applied the patch
	Method      string // Patched method, as Type::Name
	Inserted    int    // Number of instructions added to the body
	OriginalLen int    // Body length before patching
}

// NewPatchAppliedEvent creates a PatchAppliedEvent.
func NewPatchAppliedEvent(edit, method string, originalLen, inserted int) PatchAppliedEvent {
	return PatchAppliedEvent{
		baseEvent:   newBaseEvent("patch.applied"),
		Edit:        edit,
		Method:      method,
		Inserted:    inserted,
		OriginalLen: originalLen,
	}
}

// PatchFailedEvent is emitted when an edit's patch attempt failed.
type PatchFailedEvent struct {
	baseEvent
	Edit       string // Edit whose patch failed
	Method     string // Target method, as Type::Name
	Reason     string // Diagnostic reason reported by the patch
	Propagated bool   // Whether the failure was returned to the host
	RolledBack bool   // Whether the body was restored to its pre-patch state
}

// NewPatchFailedEvent creates a PatchFailedEvent.
func NewPatchFailedEvent(edit, method, reason string, propagated, rolledBack bool) PatchFailedEvent {
	return PatchFailedEvent{
		baseEvent:  newBaseEvent("patch.failed"),
		Edit:       edit,
		Method:     method,
		Reason:     reason,
		Propagated: propagated,
		RolledBack: rolledBack,
	}
}

// -----------------------------------------------------------------------------
// Edit Lifecycle Events
// -----------------------------------------------------------------------------

// EditLoadedEvent is emitted when an edit installed its hooks.
type EditLoadedEvent struct {
	baseEvent
	Edit string
}

// NewEditLoadedEvent creates an EditLoadedEvent.
func NewEditLoadedEvent(edit string) EditLoadedEvent {
	return EditLoadedEvent{
		baseEvent: newBaseEvent("edit.loaded"),
		Edit:      edit,
	}
}

// EditUnloadedEvent is emitted when an edit removed its hooks.
type EditUnloadedEvent struct {
	baseEvent
	Edit string
}

// NewEditUnloadedEvent creates an EditUnloadedEvent.
func NewEditUnloadedEvent(edit string) EditUnloadedEvent {
	return EditUnloadedEvent{
		baseEvent: newBaseEvent("edit.unloaded"),
		Edit:      edit,
	}
}
