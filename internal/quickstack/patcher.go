package quickstack

import (
	"fmt"

	"github.com/CornHusker89/MagicStorage/internal/il"
)

// ExpectedSites is the number of guard sites QuickStackAllChests contains:
// one on the multiplayer client path and one on the local path.
const ExpectedSites = 2

// Patcher inserts call-outs to Handler around every early return guarded by
// a call to Guard.
//
// A guard site is the sequence
//
//	ldarg.0
//	call   Guard
//	brtrue ...
//
// The fall-through after brtrue returns early; the branch target runs the
// guarded work and returns at the second ret after the branch. A call-out
// (ldarg.0; call Handler) goes right after the brtrue and right before that
// second ret, so Handler runs once on either path.
type Patcher struct {
	Guard   il.MethodRef
	Handler il.MethodRef
}

// Patch rewrites the stream under c. It reports false with a reason when the
// stream does not have exactly ExpectedSites guard sites, or a site is not
// followed by two returns. Call-outs already emitted stay in the stream; roll
// back with a snapshot if the attempt must be atomic.
func (p Patcher) Patch(c *il.Cursor) (bool, string) {
	foundAny := false
	sites := 0

	for c.GotoNext(il.After,
		il.MatchLdarg(0),
		il.MatchCall(p.Guard),
		il.MatchBrtrue(nil),
	) {
		foundAny = true
		p.emitCallOut(c)

		// Skip the early return, then stop on the one that ends the guarded
		// work.
		rets := 0
		for rets < 2 && c.GotoNext(il.After, il.MatchRet()) {
			rets++
		}
		if rets != 2 {
			return false, fmt.Sprintf("mismatch for ret instructions detected: expected 1 match, found %d", rets)
		}

		c.Move(-1)
		p.emitCallOut(c)
		sites++
	}

	if !foundAny {
		return false, fmt.Sprintf("could not find any calls to %s", p.Guard)
	}
	if sites != ExpectedSites {
		return false, fmt.Sprintf("expected exactly %d target locations, found %d", ExpectedSites, sites)
	}
	return true, ""
}

func (p Patcher) emitCallOut(c *il.Cursor) {
	c.Emit(il.Ldarg(0), il.Call(p.Handler))
}
