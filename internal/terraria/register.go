package terraria

import (
	_ "embed"
	"fmt"

	"github.com/CornHusker89/MagicStorage/internal/host"
	"github.com/CornHusker89/MagicStorage/internal/il"
)

// PlayerType is the host type name of Player.
const PlayerType = "Terraria.Player"

// Player methods installed by Register.
var (
	QuickStackAllChests     = il.MethodRef{Type: PlayerType, Name: "QuickStackAllChests"}
	UseVoidBag              = il.MethodRef{Type: PlayerType, Name: "useVoidBag"}
	IsMultiplayerClient     = il.MethodRef{Type: PlayerType, Name: "IsMultiplayerClient"}
	SendInventoryQuickStack = il.MethodRef{Type: PlayerType, Name: "SendInventoryQuickStack"}
	SendBankQuickStack      = il.MethodRef{Type: PlayerType, Name: "SendBankQuickStack"}
	StackInventoryToChests  = il.MethodRef{Type: PlayerType, Name: "StackInventoryToChests"}
	StackBankToChests       = il.MethodRef{Type: PlayerType, Name: "StackBankToChests"}
)

//go:embed quick_stack_all_chests.yaml
var quickStackAllChestsYAML []byte

// QuickStackAllChestsBody decodes a fresh copy of the vanilla body.
func QuickStackAllChestsBody() (*il.Body, error) {
	_, body, err := il.DecodeBody(quickStackAllChestsYAML)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", QuickStackAllChests, err)
	}
	return body, nil
}

// Vanilla receives the calls QuickStackAllChests makes into the rest of the
// game.
type Vanilla interface {
	SendInventoryQuickStack(p *Player)
	SendBankQuickStack(p *Player)
	StackInventoryToChests(p *Player)
	StackBankToChests(p *Player)
}

// Register defines Player methods on rt. QuickStackAllChests is defined by
// its instruction body so edits can hook it; everything it calls is native.
func Register(rt *host.Runtime, game *Game, v Vanilla) error {
	body, err := QuickStackAllChestsBody()
	if err != nil {
		return err
	}
	return RegisterWith(rt, game, v, body)
}

// RegisterWith is Register with a caller-supplied QuickStackAllChests body,
// for checking edits against other game versions.
func RegisterWith(rt *host.Runtime, game *Game, v Vanilla, body *il.Body) error {
	if err := body.Validate(); err != nil {
		return fmt.Errorf("%s: %w", QuickStackAllChests, err)
	}
	rt.DefineMethod(QuickStackAllChests, 1, false, body)

	rt.DefineNative(UseVoidBag, 1, true, func(args []any) any {
		p, ok := args[0].(*Player)
		return ok && p.UseVoidBag()
	})
	rt.Define(&host.Method{
		Ref:     IsMultiplayerClient,
		Params:  1,
		Returns: true,
		Native: func([]any) any {
			return game.NetMode == MultiplayerClient
		},
	})

	vanilla := map[il.MethodRef]func(*Player){
		SendInventoryQuickStack: v.SendInventoryQuickStack,
		SendBankQuickStack:      v.SendBankQuickStack,
		StackInventoryToChests:  v.StackInventoryToChests,
		StackBankToChests:       v.StackBankToChests,
	}
	for ref, fn := range vanilla {
		rt.DefineNative(ref, 1, false, func(args []any) any {
			if p, ok := args[0].(*Player); ok {
				fn(p)
			}
			return nil
		})
	}
	return nil
}

// Trace is a Vanilla that records calls by method name.
type Trace struct {
	Calls []string
}

func (t *Trace) SendInventoryQuickStack(*Player) {
	t.Calls = append(t.Calls, SendInventoryQuickStack.Name)
}

func (t *Trace) SendBankQuickStack(*Player) {
	t.Calls = append(t.Calls, SendBankQuickStack.Name)
}

func (t *Trace) StackInventoryToChests(*Player) {
	t.Calls = append(t.Calls, StackInventoryToChests.Name)
}

func (t *Trace) StackBankToChests(*Player) {
	t.Calls = append(t.Calls, StackBankToChests.Name)
}
