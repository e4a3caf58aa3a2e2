// Package internal contains integration tests that verify the packages work
// together: the runtime compiles a hooked method, the edit lifecycle reports
// on the event bus, and the patched body drives the storage world.
package internal

import (
	"bytes"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/CornHusker89/MagicStorage/internal/edit"
	"github.com/CornHusker89/MagicStorage/internal/event"
	"github.com/CornHusker89/MagicStorage/internal/host"
	"github.com/CornHusker89/MagicStorage/internal/il"
	"github.com/CornHusker89/MagicStorage/internal/quickstack"
	"github.com/CornHusker89/MagicStorage/internal/storage"
	"github.com/CornHusker89/MagicStorage/internal/terraria"
)

// TestEventBusIntegration checks the order of events one edit produces
// across load, compile and unload.
func TestEventBusIntegration(t *testing.T) {
	bus := event.NewBus(nil)

	var received []string
	var mu sync.Mutex
	bus.SubscribeAll(func(e event.Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e.EventType())
	})

	rt := host.New(bus, nil)
	if err := terraria.Register(rt, &terraria.Game{}, &terraria.Trace{}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	world := storage.NewWorld()
	quickstack.RegisterHandler(rt, &quickstack.Handler{
		Game:     &terraria.Game{},
		Locator:  world,
		Transfer: world,
		UI:       world,
	})

	m, err := edit.NewManager(rt, edit.ManagerConfig{Bus: bus})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := m.Register(quickstack.NewEdit()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := m.LoadAll(); err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if _, err := rt.Compile(terraria.QuickStackAllChests); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	m.UnloadAll()

	// Wildcard handlers run after specific ones, so the patch result
	// published from inside the compile hook arrives first.
	want := []string{
		"edit.loaded",
		"patch.applied",
		event.CompileEventType(terraria.QuickStackAllChests),
		"edit.unloaded",
	}
	mu.Lock()
	defer mu.Unlock()
	if strings.Join(received, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", received, want)
	}
}

// TestQuickStackIntegration presses quick stack with the edit loaded and
// checks that the items reach storage while vanilla stacking still runs.
func TestQuickStackIntegration(t *testing.T) {
	rt := host.New(event.NewBus(nil), nil)
	game := &terraria.Game{}
	trace := &terraria.Trace{}
	if err := terraria.Register(rt, game, trace); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	world := storage.NewWorld()
	player := terraria.NewPlayer(0)
	network := world.AddNetwork(1, terraria.Vector2{X: 50}, 0)
	network.Store(2, 1)
	player.Inventory[terraria.HotbarSize] = &terraria.Item{Type: 2, Stack: 99}
	world.SetViewing(player.WhoAmI, true)

	quickstack.RegisterHandler(rt, &quickstack.Handler{
		Game:     game,
		Locator:  world,
		Transfer: world,
		Net:      storage.NewLoopback(world, player, nil),
		UI:       world,
	})

	m, err := edit.NewManager(rt, edit.ManagerConfig{Bus: rt.Bus()})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := m.Register(quickstack.NewEdit()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := m.LoadAll(); err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	if _, err := rt.Invoke(terraria.QuickStackAllChests, player); err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	if got := network.Count(2); got != 100 {
		t.Errorf("stored = %d, want 100", got)
	}
	if !player.Inventory[terraria.HotbarSize].IsAir() {
		t.Error("inventory slot should be empty after stacking")
	}
	if len(trace.Calls) != 1 || trace.Calls[0] != terraria.StackInventoryToChests.Name {
		t.Errorf("vanilla calls = %v, want [%s]", trace.Calls, terraria.StackInventoryToChests.Name)
	}
	if refreshed := world.Refreshed(); len(refreshed) != 1 || refreshed[0] != 2 {
		t.Errorf("refreshed = %v, want [2]", refreshed)
	}
}

// TestSourceHygiene verifies that every Go source file is gofmt-formatted
// and every method body file under internal/ decodes and validates.
//
// If formatting fails, run: gofmt -w ./internal/ ./cmd/
func TestSourceHygiene(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	// Navigate to project root from internal/
	projectRoot := filepath.Dir(wd)
	if filepath.Base(wd) != "internal" {
		// We might be running from project root
		projectRoot = wd
	}

	var unformatted, badBodies []string
	for _, dir := range []string{"internal", "cmd"} {
		root := filepath.Join(projectRoot, dir)
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				// Skip vendor and hidden directories
				if info.Name() == "vendor" || strings.HasPrefix(info.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			rel, _ := filepath.Rel(projectRoot, path)

			switch filepath.Ext(path) {
			case ".go":
				content, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				formatted, err := format.Source(content)
				if err != nil {
					// Skip files that don't parse (might have build tags)
					return nil
				}
				if !bytes.Equal(content, formatted) {
					unformatted = append(unformatted, rel)
				}
			case ".yaml":
				_, body, err := il.LoadBodyFile(path)
				if err == nil {
					err = body.Validate()
				}
				if err != nil {
					badBodies = append(badBodies, rel+": "+err.Error())
				}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Failed to walk directory %s: %v", root, err)
		}
	}

	for _, f := range unformatted {
		t.Errorf("not gofmt-formatted: %s", f)
	}
	for _, b := range badBodies {
		t.Errorf("invalid method body: %s", b)
	}
}
