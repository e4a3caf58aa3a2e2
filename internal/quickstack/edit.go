package quickstack

import (
	"github.com/CornHusker89/MagicStorage/internal/edit"
	"github.com/CornHusker89/MagicStorage/internal/host"
	"github.com/CornHusker89/MagicStorage/internal/il"
	"github.com/CornHusker89/MagicStorage/internal/terraria"
)

// EditName names the edit in logs, diagnostics and config filters.
const EditName = "QuickStackILEdit"

// HandlerMethod is the host method the emitted call-outs invoke.
var HandlerMethod = il.MethodRef{Type: "MagicStorage.Edits.QuickStackILEdit", Name: "TryStorageQuickStack"}

// Edit makes the inventory quick stack button also stack into nearby
// storage. Failures are suppressed: without the patch quick stacking still
// works, it just skips storage.
type Edit struct {
	hookID string
}

// NewEdit creates the quick stack edit.
func NewEdit() *Edit {
	return &Edit{}
}

// Name implements edit.Edit.
func (e *Edit) Name() string { return EditName }

// LoadEdits resolves Player.useVoidBag and hooks QuickStackAllChests.
func (e *Edit) LoadEdits(h *edit.Hooks) error {
	guard, err := h.LookupMethod(terraria.PlayerType, terraria.UseVoidBag.Name, host.Public|host.Instance)
	if err != nil {
		return err
	}

	p := Patcher{Guard: guard, Handler: HandlerMethod}
	e.hookID = h.Hook(terraria.QuickStackAllChests, func(ctx *il.Context) error {
		return h.Patch(ctx, edit.Suppress, p.Patch)
	})
	return nil
}

// UnloadEdits removes the QuickStackAllChests hook.
func (e *Edit) UnloadEdits(h *edit.Hooks) {
	if e.hookID == "" {
		return
	}
	h.Unhook(e.hookID)
	e.hookID = ""
}

// RegisterHandler defines HandlerMethod on rt, dispatching to handler.
func RegisterHandler(rt *host.Runtime, handler *Handler) {
	rt.Define(&host.Method{
		Ref:    HandlerMethod,
		Public: true,
		Static: true,
		Params: 1,
		Native: func(args []any) any {
			if p, ok := args[0].(*terraria.Player); ok {
				handler.TryStorageQuickStack(p)
			}
			return nil
		},
	})
}
