package quickstack

import (
	"github.com/CornHusker89/MagicStorage/internal/logging"
	"github.com/CornHusker89/MagicStorage/internal/terraria"
)

// Center is a storage network's access point.
type Center struct {
	ID       int
	Position terraria.Vector2
}

// StorageLocator finds the storage centers in quick stack range of a player.
type StorageLocator interface {
	NearbyCenters(p *terraria.Player) []Center
}

// Transferer moves an item into storage. It mutates item to hold whatever
// did not fit and reports whether anything moved. playSound is set when the
// transfer wants the stacking sound played.
type Transferer interface {
	TryQuickStack(origin terraria.Vector2, centers []Center, item *terraria.Item, playSound *bool) bool
}

// Network sends quick stack requests to the server from a multiplayer client.
type Network interface {
	// SyncEquipment sends the current contents of slot so the server sees
	// the same item the request refers to.
	SyncEquipment(whoAmI, slot, prefix int)
	// RequestQuickStack asks the server to stack slot into centers.
	RequestQuickStack(origin terraria.Vector2, slot int, centers []Center)
}

// Refresher is the storage UI.
type Refresher interface {
	// ViewingStorage reports whether p has a storage UI open.
	ViewingStorage(p *terraria.Player) bool
	// Refresh marks itemType for redraw on the next UI update.
	Refresh(itemType int)
}

// Handler quick stacks a player's inventory into nearby storage. Patched
// QuickStackAllChests bodies call TryStorageQuickStack.
type Handler struct {
	Game     *terraria.Game
	Locator  StorageLocator
	Transfer Transferer
	Net      Network
	UI       Refresher
	Logger   *logging.Logger
}

// TryStorageQuickStack stacks the main inventory and, when the void bag is in
// use, bank 4 into nearby storage. It only runs on a client or in
// singleplayer.
func (h *Handler) TryStorageQuickStack(p *terraria.Player) {
	centers := h.Locator.NearbyCenters(p)
	client := h.Game != nil && h.Game.NetMode == terraria.MultiplayerClient

	for i := terraria.HotbarSize; i < terraria.MainInventoryEnd; i++ {
		item := p.Inventory[i]
		if !eligible(item) {
			continue
		}
		if client {
			slot := terraria.SlotInventory0 + i
			h.Net.SyncEquipment(p.WhoAmI, slot, item.Prefix)
			h.Net.RequestQuickStack(p.Center, slot, centers)
			p.InventoryChestStack[i] = true
		} else {
			h.transfer(p, item, centers)
		}
	}

	if !p.UseVoidBag() {
		return
	}
	for i := 0; i < terraria.BankSize; i++ {
		item := p.Bank4[i]
		if !eligible(item) {
			continue
		}
		if client {
			slot := terraria.SlotBank4_0 + i
			h.Net.SyncEquipment(p.WhoAmI, slot, item.Prefix)
			h.Net.RequestQuickStack(p.Center, slot, centers)
			p.DisableVoidBag = i
		} else {
			h.transfer(p, item, centers)
		}
	}
}

func eligible(item *terraria.Item) bool {
	return !item.IsAir() && !item.Favorited && !item.IsACoin()
}

func (h *Handler) transfer(p *terraria.Player, item *terraria.Item, centers []Center) {
	// Quick stacking shows particles instead of a sound, so the flag is ignored.
	playSound := false
	itemType := item.Type

	if !h.Transfer.TryQuickStack(p.Center, centers, item, &playSound) {
		return
	}
	if h.UI != nil && h.UI.ViewingStorage(p) {
		h.UI.Refresh(itemType)
	}
	if h.Logger != nil {
		h.Logger.Debug("quick stacked item", "type", itemType, "left", item.Stack)
	}
}
