package edit

import (
	"strings"
	"testing"

	"github.com/CornHusker89/MagicStorage/internal/errors"
	"github.com/CornHusker89/MagicStorage/internal/event"
	"github.com/CornHusker89/MagicStorage/internal/il"
)

var target = il.MethodRef{Type: "Demo", Name: "Target"}

func newTestContext() *il.Context {
	return il.NewContext(target, il.NewBody(il.Nop(), il.Ret()))
}

// emitThen emits two instructions at the start of the body and then reports
// ok with reason.
func emitThen(ok bool, reason string) PatchFunc {
	return func(c *il.Cursor) (bool, string) {
		c.Emit(il.LdcI4(1), il.Pop())
		return ok, reason
	}
}

func TestParseFailurePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    FailurePolicy
		wantErr bool
	}{
		{"suppress", Suppress, false},
		{"Propagate", Propagate, false},
		{" propagate ", Propagate, false},
		{"ignore", Suppress, true},
		{"", Suppress, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFailurePolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFailurePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFailurePolicy(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if err != nil && !errors.Is(err, errors.ErrInvalidInput) {
				t.Errorf("error %v should wrap ErrInvalidInput", err)
			}
		})
	}
}

func TestFailurePolicy_String(t *testing.T) {
	if got := Suppress.String(); got != "suppress" {
		t.Errorf("Suppress.String() = %q, want %q", got, "suppress")
	}
	if got := Propagate.String(); got != "propagate" {
		t.Errorf("Propagate.String() = %q, want %q", got, "propagate")
	}
	if got := FailurePolicy(7).String(); got != "FailurePolicy(7)" {
		t.Errorf("FailurePolicy(7).String() = %q", got)
	}
}

func TestWrapper_Success(t *testing.T) {
	bus := event.NewBus(nil)
	var applied []event.PatchAppliedEvent
	bus.Subscribe("patch.applied", func(e event.Event) {
		applied = append(applied, e.(event.PatchAppliedEvent))
	})

	w := NewWrapper(WrapperConfig{Atomic: true, Bus: bus})
	ctx := newTestContext()

	if err := w.Apply(ctx, "E", Propagate, emitThen(true, "")); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if ctx.Body.Len() != 4 {
		t.Errorf("Body.Len() = %d, want 4", ctx.Body.Len())
	}

	o, ok := w.Diagnostics().Last("E")
	if !ok {
		t.Fatal("no outcome recorded")
	}
	if !o.Success || o.Inserted != 2 || o.Reason != "" {
		t.Errorf("outcome = %+v, want success with 2 inserted", o)
	}
	if o.Method != "Demo::Target" {
		t.Errorf("outcome.Method = %q, want %q", o.Method, "Demo::Target")
	}

	if len(applied) != 1 {
		t.Fatalf("got %d patch.applied events, want 1", len(applied))
	}
	if applied[0].OriginalLen != 2 || applied[0].Inserted != 2 {
		t.Errorf("event = %+v, want original_len 2, inserted 2", applied[0])
	}
}

func TestWrapper_Failure(t *testing.T) {
	tests := []struct {
		name       string
		atomic     bool
		policy     FailurePolicy
		wantErr    bool
		wantLen    int
		rolledBack bool
	}{
		{"atomic suppress", true, Suppress, false, 2, true},
		{"atomic propagate", true, Propagate, true, 2, true},
		{"greedy suppress", false, Suppress, false, 4, false},
		{"greedy propagate", false, Propagate, true, 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := event.NewBus(nil)
			var failed []event.PatchFailedEvent
			bus.Subscribe("patch.failed", func(e event.Event) {
				failed = append(failed, e.(event.PatchFailedEvent))
			})

			w := NewWrapper(WrapperConfig{Atomic: tt.atomic, Bus: bus})
			ctx := newTestContext()
			original := ctx.Body.Instructions()

			err := w.Apply(ctx, "E", tt.policy, emitThen(false, "shape mismatch"))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if ctx.Body.Len() != tt.wantLen {
				t.Errorf("Body.Len() = %d, want %d", ctx.Body.Len(), tt.wantLen)
			}
			if tt.rolledBack {
				for i, ins := range original {
					if ctx.Body.At(i) != ins {
						t.Errorf("At(%d) = %v, want original %v", i, ctx.Body.At(i), ins)
					}
				}
			}

			if err != nil {
				var perr *errors.PatchError
				if !errors.As(err, &perr) {
					t.Fatalf("error %T is not a *PatchError", err)
				}
				if perr.Reason != "shape mismatch" {
					t.Errorf("Reason = %q, want %q", perr.Reason, "shape mismatch")
				}
				if !errors.IsStructural(err) {
					t.Error("IsStructural() = false, want true")
				}
			}

			o, _ := w.Diagnostics().Last("E")
			if o.Success || o.Reason != "shape mismatch" || o.RolledBack != tt.rolledBack {
				t.Errorf("outcome = %+v", o)
			}
			if o.Propagated != (tt.policy == Propagate) {
				t.Errorf("outcome.Propagated = %v, want %v", o.Propagated, tt.policy == Propagate)
			}

			if len(failed) != 1 {
				t.Fatalf("got %d patch.failed events, want 1", len(failed))
			}
			if failed[0].RolledBack != tt.rolledBack {
				t.Errorf("event.RolledBack = %v, want %v", failed[0].RolledBack, tt.rolledBack)
			}
		})
	}
}

func TestWrapper_RecoversPanic(t *testing.T) {
	boom := func(c *il.Cursor) (bool, string) {
		c.Emit(il.Nop())
		c.SetIndex(99)
		return true, ""
	}

	t.Run("suppress", func(t *testing.T) {
		w := NewWrapper(WrapperConfig{Atomic: true})
		ctx := newTestContext()

		if err := w.Apply(ctx, "E", Suppress, boom); err != nil {
			t.Fatalf("Apply() error = %v, want nil", err)
		}
		if ctx.Body.Len() != 2 {
			t.Errorf("Body.Len() = %d, want 2 after rollback", ctx.Body.Len())
		}
		o, _ := w.Diagnostics().Last("E")
		if !strings.HasPrefix(o.Reason, "patch panicked: ") {
			t.Errorf("Reason = %q, want patch panicked prefix", o.Reason)
		}
	})

	t.Run("propagate", func(t *testing.T) {
		w := NewWrapper(WrapperConfig{Atomic: true})
		err := w.Apply(newTestContext(), "E", Propagate, boom)
		if !errors.Is(err, errors.ErrPatchPanicked) {
			t.Fatalf("Apply() error = %v, want ErrPatchPanicked", err)
		}
		if errors.IsStructural(err) {
			t.Error("a panic is not a structural mismatch")
		}
		if got := errors.GetSeverity(err); got != errors.SeverityError {
			t.Errorf("GetSeverity() = %v, want %v", got, errors.SeverityError)
		}
	})
}

func TestWrapper_Override(t *testing.T) {
	p := Propagate
	w := NewWrapper(WrapperConfig{Atomic: true, Override: &p})

	if err := w.Apply(newTestContext(), "E", Suppress, emitThen(false, "x")); err == nil {
		t.Error("Apply() error = nil, want override to propagate")
	}
}

func TestWrapper_EmptyReason(t *testing.T) {
	w := NewWrapper(WrapperConfig{Atomic: true})
	w.Apply(newTestContext(), "E", Suppress, emitThen(false, ""))

	o, _ := w.Diagnostics().Last("E")
	if o.Reason == "" {
		t.Error("Reason should never be empty on failure")
	}
}

func TestDiagnostics_All(t *testing.T) {
	d := NewDiagnostics()
	d.Record(Outcome{Edit: "b", Success: true})
	d.Record(Outcome{Edit: "a", Reason: "x"})
	d.Record(Outcome{Edit: "b", Reason: "later"})

	all := d.All()
	if len(all) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(all))
	}
	if all[0].Edit != "a" || all[1].Edit != "b" {
		t.Errorf("All() order = %q, %q; want a, b", all[0].Edit, all[1].Edit)
	}
	if all[1].Reason != "later" {
		t.Errorf("latest outcome for b = %+v, want reason later", all[1])
	}
	if all[0].At.IsZero() {
		t.Error("Record should stamp At")
	}

	d.Reset()
	if _, ok := d.Last("a"); ok {
		t.Error("Last() after Reset() found an outcome")
	}
}
