// Package terraria models the slice of the game the quick stack edit
// touches: players, their items, and the vanilla Player methods that
// QuickStackAllChests calls. Register installs them on a host runtime.
package terraria

// Inventory layout.
const (
	InventorySize = 58
	BankSize      = 40

	// HotbarSize slots at the start of the inventory are never quick stacked.
	HotbarSize = 10
	// MainInventoryEnd is one past the last quick-stackable main slot; the
	// coin and ammo slots follow it.
	MainInventoryEnd = 50
)

// Slot ids used when syncing a single item slot over the network.
const (
	SlotInventory0 = 0
	SlotBank4_0    = 220
)

// Coin item types.
const (
	ItemCopperCoin   = 71
	ItemSilverCoin   = 72
	ItemGoldCoin     = 73
	ItemPlatinumCoin = 74
)

// NetMode is the game's network role.
type NetMode int

const (
	SinglePlayer NetMode = iota
	MultiplayerClient
	Server
)

// String returns the net mode name.
func (m NetMode) String() string {
	switch m {
	case SinglePlayer:
		return "singleplayer"
	case MultiplayerClient:
		return "client"
	case Server:
		return "server"
	default:
		return "unknown"
	}
}

// Game is the process-wide game state the edit reads.
type Game struct {
	NetMode NetMode
}

// Vector2 is a world position.
type Vector2 struct {
	X, Y float64
}

// Item is one stack of items in a slot.
type Item struct {
	Type      int
	Stack     int
	Prefix    int
	Favorited bool
}

// IsAir reports whether the slot holds nothing.
func (i *Item) IsAir() bool {
	return i == nil || i.Type == 0 || i.Stack <= 0
}

// IsACoin reports whether the item is currency.
func (i *Item) IsACoin() bool {
	return i != nil && i.Type >= ItemCopperCoin && i.Type <= ItemPlatinumCoin
}

// TurnToAir empties the item in place.
func (i *Item) TurnToAir() {
	*i = Item{}
}

// Player is a player and the inventories quick stacking can drain.
type Player struct {
	WhoAmI    int
	Center    Vector2
	Inventory [InventorySize]*Item
	// InventoryChestStack marks inventory slots with a quick stack request
	// in flight to the server.
	InventoryChestStack [InventorySize]bool

	// Bank4 is the void vault.
	Bank4 [BankSize]*Item
	// HasVoidBag is set while the player carries an open void bag.
	HasVoidBag bool
	// DisableVoidBag is the bank 4 slot with a request in flight, or -1.
	DisableVoidBag int
}

// NewPlayer creates a player with empty inventories.
func NewPlayer(whoAmI int) *Player {
	p := &Player{WhoAmI: whoAmI, DisableVoidBag: -1}
	for i := range p.Inventory {
		p.Inventory[i] = &Item{}
	}
	for i := range p.Bank4 {
		p.Bank4[i] = &Item{}
	}
	return p
}

// UseVoidBag reports whether bank 4 currently takes part in quick stacking.
func (p *Player) UseVoidBag() bool {
	return p.HasVoidBag && p.DisableVoidBag < 0
}
