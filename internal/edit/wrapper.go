package edit

import (
	"fmt"

	"github.com/CornHusker89/MagicStorage/internal/errors"
	"github.com/CornHusker89/MagicStorage/internal/event"
	"github.com/CornHusker89/MagicStorage/internal/il"
	"github.com/CornHusker89/MagicStorage/internal/logging"
)

// PatchFunc edits the stream under c. It reports false with a reason when the
// stream did not have the shape it expected.
type PatchFunc func(c *il.Cursor) (ok bool, reason string)

// WrapperConfig configures a Wrapper.
type WrapperConfig struct {
	// Atomic restores the body to its pre-patch state when a patch fails.
	// When false, instructions emitted before the failure stay in the body.
	Atomic bool

	// Override, if set, replaces the policy every call site passes.
	Override *FailurePolicy

	Logger      *logging.Logger
	Bus         *event.Bus
	Diagnostics *Diagnostics
}

// Wrapper runs patches against method bodies and turns their outcome into
// logs, events, diagnostics and, under Propagate, an error for the host.
type Wrapper struct {
	atomic   bool
	override *FailurePolicy
	logger   *logging.Logger
	bus      *event.Bus
	diag     *Diagnostics
}

// NewWrapper creates a Wrapper. Nil collaborators are replaced with no-op ones.
func NewWrapper(cfg WrapperConfig) *Wrapper {
	w := &Wrapper{
		atomic:   cfg.Atomic,
		override: cfg.Override,
		logger:   cfg.Logger,
		bus:      cfg.Bus,
		diag:     cfg.Diagnostics,
	}
	if w.logger == nil {
		w.logger = logging.NopLogger()
	}
	if w.bus == nil {
		w.bus = event.NewBus(w.logger)
	}
	if w.diag == nil {
		w.diag = NewDiagnostics()
	}
	return w
}

// Diagnostics returns the outcome store the wrapper records into.
func (w *Wrapper) Diagnostics() *Diagnostics { return w.diag }

// Atomic reports whether failed patches are rolled back.
func (w *Wrapper) Atomic() bool { return w.atomic }

// Apply runs patch against ctx on behalf of owner.
//
// On success the patched body is kept. On failure, whether reported by the
// patch or raised as a panic, the body is restored when the wrapper is
// atomic, and the returned error is nil under Suppress or a *errors.PatchError
// under Propagate.
func (w *Wrapper) Apply(ctx *il.Context, owner string, policy FailurePolicy, patch PatchFunc) error {
	if w.override != nil {
		policy = *w.override
	}
	method := ctx.Method.String()
	log := w.logger.WithEdit(owner).WithMethod(method)

	var snap il.Snapshot
	if w.atomic {
		snap = ctx.Body.Snapshot()
	}
	originalLen := ctx.Body.Len()

	ok, reason, cause := run(ctx, patch)
	if ok {
		inserted := ctx.Body.Len() - originalLen
		w.diag.Record(Outcome{Edit: owner, Method: method, Success: true, Inserted: inserted})
		w.bus.Publish(event.NewPatchAppliedEvent(owner, method, originalLen, inserted))
		log.Debug("patch applied", "original_len", originalLen, "inserted", inserted)
		return nil
	}

	if w.atomic {
		ctx.Body.Restore(snap)
	}
	propagate := policy == Propagate

	w.diag.Record(Outcome{
		Edit:       owner,
		Method:     method,
		Reason:     reason,
		RolledBack: w.atomic,
		Propagated: propagate,
	})
	w.bus.Publish(event.NewPatchFailedEvent(owner, method, reason, propagate, w.atomic))

	perr := errors.NewPatchError(owner, cause).WithMethod(method).WithReason(reason)
	if errors.Is(cause, errors.ErrPatchPanicked) {
		perr = perr.WithSeverity(errors.SeverityError)
	}

	if !propagate {
		log.Warn("patch failed, continuing unpatched",
			"reason", reason,
			"rolled_back", w.atomic,
			"body_len", ctx.Body.Len())
		return nil
	}
	log.Error("patch failed", "reason", reason, "rolled_back", w.atomic)
	return perr
}

// run calls patch, converting a panic into a failed attempt.
func run(ctx *il.Context, patch PatchFunc) (ok bool, reason string, cause error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			reason = fmt.Sprintf("patch panicked: %v", r)
			cause = errors.ErrPatchPanicked
		}
	}()

	ok, reason = patch(ctx.Cursor())
	if !ok {
		if reason == "" {
			reason = "patch reported failure without a reason"
		}
		cause = errors.ErrStructuralMismatch
	}
	return ok, reason, cause
}
