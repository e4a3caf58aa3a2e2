package edit

import (
	"github.com/CornHusker89/MagicStorage/internal/host"
	"github.com/CornHusker89/MagicStorage/internal/il"
)

// Edit is a unit of method-body patches that is installed and removed as a
// whole.
type Edit interface {
	// Name identifies the edit in logs, diagnostics and config filters.
	Name() string
	// LoadEdits resolves the methods the edit needs and installs its hooks.
	// A returned error leaves the edit unloaded.
	LoadEdits(h *Hooks) error
	// UnloadEdits removes the hooks installed by LoadEdits.
	UnloadEdits(h *Hooks)
}

// Host is the runtime whose method bodies edits rewrite.
type Host interface {
	Hook(method il.MethodRef, m il.Manipulator) string
	Unhook(id string) bool
	LookupMethod(typeName, name string, flags host.BindingFlags) (il.MethodRef, error)
}

// Hooks is the registry one edit uses to reach the host. It remembers every
// hook the edit installs so an unload removes them even if the edit forgets
// one.
type Hooks struct {
	edit    string
	host    Host
	wrapper *Wrapper
	ids     map[string]struct{}
}

func newHooks(edit string, h Host, w *Wrapper) *Hooks {
	return &Hooks{
		edit:    edit,
		host:    h,
		wrapper: w,
		ids:     make(map[string]struct{}),
	}
}

// Hook installs m as an edit of method and returns its handler id.
func (h *Hooks) Hook(method il.MethodRef, m il.Manipulator) string {
	id := h.host.Hook(method, m)
	h.ids[id] = struct{}{}
	return id
}

// Unhook removes a handler installed through h. Unknown ids return false.
func (h *Hooks) Unhook(id string) bool {
	if _, ok := h.ids[id]; !ok {
		return false
	}
	delete(h.ids, id)
	return h.host.Unhook(id)
}

// LookupMethod resolves a method on the host.
func (h *Hooks) LookupMethod(typeName, name string, flags host.BindingFlags) (il.MethodRef, error) {
	return h.host.LookupMethod(typeName, name, flags)
}

// Patch runs patch against ctx through the common patching wrapper, on
// behalf of the owning edit.
func (h *Hooks) Patch(ctx *il.Context, policy FailurePolicy, patch PatchFunc) error {
	return h.wrapper.Apply(ctx, h.edit, policy, patch)
}

// Installed returns how many handlers are currently installed through h.
func (h *Hooks) Installed() int { return len(h.ids) }

func (h *Hooks) unhookAll() {
	for id := range h.ids {
		h.host.Unhook(id)
	}
	h.ids = make(map[string]struct{})
}
