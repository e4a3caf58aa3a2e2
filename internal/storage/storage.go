// Package storage is an in-memory model of storage networks: the targets the
// quick stack handler moves items into, and the storage UI it refreshes.
package storage

import (
	"math"
	"sort"
	"sync"

	"github.com/CornHusker89/MagicStorage/internal/quickstack"
	"github.com/CornHusker89/MagicStorage/internal/terraria"
)

// DefaultRange is the quick stack reach, in world units.
const DefaultRange = 200.0

// Network is one storage center and the items stored behind it.
type Network struct {
	Center   quickstack.Center
	Capacity int // total items the network holds; zero means unlimited
	items    map[int]int
}

// Count returns how many items of itemType are stored.
func (n *Network) Count(itemType int) int { return n.items[itemType] }

// Total returns the number of stored items.
func (n *Network) Total() int {
	total := 0
	for _, c := range n.items {
		total += c
	}
	return total
}

// Store adds count items of itemType, ignoring capacity.
func (n *Network) Store(itemType, count int) {
	n.items[itemType] += count
}

func (n *Network) free() int {
	if n.Capacity == 0 {
		return math.MaxInt
	}
	return max(n.Capacity-n.Total(), 0)
}

// World holds every storage network and the UI state of each player.
type World struct {
	// Range is the quick stack reach in world units.
	Range float64

	mu        sync.Mutex
	networks  map[int]*Network
	viewing   map[int]bool
	refreshed []int
}

// NewWorld creates an empty world with DefaultRange.
func NewWorld() *World {
	return &World{
		Range:    DefaultRange,
		networks: make(map[int]*Network),
		viewing:  make(map[int]bool),
	}
}

// AddNetwork places a storage center at pos.
func (w *World) AddNetwork(id int, pos terraria.Vector2, capacity int) *Network {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := &Network{
		Center:   quickstack.Center{ID: id, Position: pos},
		Capacity: capacity,
		items:    make(map[int]int),
	}
	w.networks[id] = n
	return n
}

// Network returns the network with the given center id.
func (w *World) Network(id int) (*Network, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, ok := w.networks[id]
	return n, ok
}

// NearbyCenters implements quickstack.StorageLocator. Centers are returned
// nearest first.
func (w *World) NearbyCenters(p *terraria.Player) []quickstack.Center {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []quickstack.Center
	for _, n := range w.networks {
		if distance(n.Center.Position, p.Center) <= w.Range {
			out = append(out, n.Center)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := distance(out[i].Position, p.Center), distance(out[j].Position, p.Center)
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// TryQuickStack implements quickstack.Transferer. Like chest quick stacking,
// it only deposits into networks that already hold the item type.
func (w *World) TryQuickStack(origin terraria.Vector2, centers []quickstack.Center, item *terraria.Item, playSound *bool) bool {
	if item.IsAir() {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	moved := 0
	for _, c := range centers {
		n, ok := w.networks[c.ID]
		if !ok || n.items[item.Type] == 0 {
			continue
		}
		amount := min(item.Stack, n.free())
		if amount == 0 {
			continue
		}
		n.items[item.Type] += amount
		item.Stack -= amount
		moved += amount
		if item.Stack == 0 {
			break
		}
	}

	if moved == 0 {
		return false
	}
	if item.Stack == 0 {
		item.TurnToAir()
	}
	if playSound != nil {
		*playSound = true
	}
	return true
}

// SetViewing records whether the player has a storage UI open.
func (w *World) SetViewing(whoAmI int, viewing bool) {
	w.mu.Lock()
	w.viewing[whoAmI] = viewing
	w.mu.Unlock()
}

// ViewingStorage implements quickstack.Refresher.
func (w *World) ViewingStorage(p *terraria.Player) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewing[p.WhoAmI]
}

// Refresh implements quickstack.Refresher.
func (w *World) Refresh(itemType int) {
	w.mu.Lock()
	w.refreshed = append(w.refreshed, itemType)
	w.mu.Unlock()
}

// Refreshed returns the item types queued for a UI refresh, in order.
func (w *World) Refreshed() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]int(nil), w.refreshed...)
}

func distance(a, b terraria.Vector2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
