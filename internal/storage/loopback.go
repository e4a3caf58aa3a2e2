package storage

import (
	"github.com/CornHusker89/MagicStorage/internal/logging"
	"github.com/CornHusker89/MagicStorage/internal/quickstack"
	"github.com/CornHusker89/MagicStorage/internal/terraria"
)

// Loopback is a quickstack.Network for one client whose server runs in the
// same process. Requests queue until Flush, which serves them the way the
// server's reply would: the slot is stacked into the world and its pending
// mark cleared.
type Loopback struct {
	world  *World
	player *terraria.Player
	logger *logging.Logger

	// Synced counts SyncEquipment messages.
	Synced  int
	pending []request
}

type request struct {
	origin  terraria.Vector2
	slot    int
	centers []quickstack.Center
}

// NewLoopback creates a Loopback serving player against world.
func NewLoopback(world *World, player *terraria.Player, logger *logging.Logger) *Loopback {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Loopback{world: world, player: player, logger: logger}
}

// SyncEquipment implements quickstack.Network.
func (l *Loopback) SyncEquipment(whoAmI, slot, prefix int) {
	l.Synced++
	l.logger.Debug("sync equipment", "player", whoAmI, "slot", slot, "prefix", prefix)
}

// RequestQuickStack implements quickstack.Network.
func (l *Loopback) RequestQuickStack(origin terraria.Vector2, slot int, centers []quickstack.Center) {
	l.pending = append(l.pending, request{origin: origin, slot: slot, centers: centers})
}

// Pending returns the number of requests waiting for Flush.
func (l *Loopback) Pending() int { return len(l.pending) }

// Flush serves every queued request in order and returns how many it served.
func (l *Loopback) Flush() int {
	served := 0
	for _, req := range l.pending {
		item, done := l.resolve(req.slot)
		if item == nil {
			l.logger.Warn("quick stack request for unknown slot", "slot", req.slot)
			continue
		}
		moved := l.world.TryQuickStack(req.origin, req.centers, item, nil)
		l.logger.Debug("served quick stack request",
			"slot", req.slot, "moved", moved, "centers", len(req.centers))
		done()
		served++
	}
	l.pending = nil
	return served
}

// resolve maps a network slot id to the player's item and a func that
// clears the slot's pending mark.
func (l *Loopback) resolve(slot int) (*terraria.Item, func()) {
	p := l.player
	switch {
	case slot >= terraria.SlotBank4_0 && slot < terraria.SlotBank4_0+terraria.BankSize:
		return p.Bank4[slot-terraria.SlotBank4_0], func() { p.DisableVoidBag = -1 }
	case slot >= terraria.SlotInventory0 && slot < terraria.SlotInventory0+terraria.InventorySize:
		i := slot - terraria.SlotInventory0
		return p.Inventory[i], func() { p.InventoryChestStack[i] = false }
	default:
		return nil, nil
	}
}
