package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/CornHusker89/MagicStorage/internal/il"
	"github.com/CornHusker89/MagicStorage/internal/styles"
	"github.com/CornHusker89/MagicStorage/internal/terraria"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Press quick stack in a sample world",
	Long: `Simulate patches QuickStackAllChests, then runs it for a player standing next
to a storage network that already holds dirt and stone. The report shows
which vanilla routines ran and what ended up in storage.

In client mode the quick stack requests go through an in-process server,
which serves them after the method returns.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

var (
	simulateMode    string
	simulateVoidBag bool
	simulateBody    string
)

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVar(&simulateMode, "mode", "single", "network mode: single or client")
	simulateCmd.Flags().BoolVar(&simulateVoidBag, "void-bag", false, "carry an open void bag")
	simulateCmd.Flags().StringVar(&simulateBody, "body", "", "method body file to patch instead of vanilla")
}

// Sample item types.
const (
	itemDirt  = 2
	itemStone = 3
	itemWood  = 9
)

func parseNetMode(s string) (terraria.NetMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "singleplayer":
		return terraria.SinglePlayer, nil
	case "client":
		return terraria.MultiplayerClient, nil
	default:
		return 0, fmt.Errorf("invalid mode %q: must be single or client", s)
	}
}

func runSimulate(cmd *cobra.Command, args []string) error {
	mode, err := parseNetMode(simulateMode)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()

	var body *il.Body
	if simulateBody != "" {
		if body, err = loadBody(simulateBody); err != nil {
			return err
		}
	}

	s, err := newSession(cfg, body, logger)
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	return simulate(out, styles.NewRenderer(colorEnabled(cfg.Output.Color, out)), s, mode, simulateVoidBag)
}

// stockSample fills the session's player and world with the sample layout.
func stockSample(s *session, voidBag bool) {
	network := s.world.AddNetwork(1, s.player.Center, 0)
	network.Store(itemDirt, 1)
	network.Store(itemStone, 1)

	p := s.player
	p.Inventory[terraria.HotbarSize] = &terraria.Item{Type: itemDirt, Stack: 50}
	p.Inventory[terraria.HotbarSize+1] = &terraria.Item{Type: itemStone, Stack: 20}
	p.Inventory[terraria.HotbarSize+2] = &terraria.Item{Type: itemWood, Stack: 10}
	p.Inventory[terraria.HotbarSize+3] = &terraria.Item{Type: itemDirt, Stack: 5, Favorited: true}
	p.Inventory[terraria.HotbarSize+4] = &terraria.Item{Type: terraria.ItemGoldCoin, Stack: 3}

	p.HasVoidBag = voidBag
	p.Bank4[0] = &terraria.Item{Type: itemStone, Stack: 7}
}

// simulate applies the edits, presses quick stack once and reports.
func simulate(w io.Writer, r styles.Renderer, s *session, mode terraria.NetMode, voidBag bool) error {
	stockSample(s, voidBag)
	s.game.NetMode = mode

	if _, err := s.apply(); err != nil {
		return err
	}
	if _, err := s.runtime.Invoke(terraria.QuickStackAllChests, s.player); err != nil {
		return err
	}
	served := s.loopback.Flush()

	fmt.Fprintln(w, r.Render(styles.Title, fmt.Sprintf("Quick stack (%s)", mode)))
	fmt.Fprintf(w, "  vanilla: %s\n", strings.Join(s.trace.Calls, ", "))
	if mode == terraria.MultiplayerClient {
		fmt.Fprintf(w, "  requests served: %d (equipment synced: %d)\n", served, s.loopback.Synced)
	}

	network, _ := s.world.Network(1)
	fmt.Fprintln(w, "  storage:")
	for _, item := range []struct {
		name string
		typ  int
	}{{"dirt", itemDirt}, {"stone", itemStone}, {"wood", itemWood}} {
		fmt.Fprintf(w, "    %-6s %d\n", item.name, network.Count(item.typ))
	}

	fmt.Fprintln(w, "  left in inventory:")
	for i := terraria.HotbarSize; i < terraria.MainInventoryEnd; i++ {
		if item := s.player.Inventory[i]; !item.IsAir() {
			fmt.Fprintf(w, "    slot %-2d type %-3d x%d\n", i, item.Type, item.Stack)
		}
	}
	if item := s.player.Bank4[0]; !item.IsAir() {
		fmt.Fprintf(w, "    bank4 0  type %-3d x%d\n", item.Type, item.Stack)
	}

	fmt.Fprintln(w)
	writeStatuses(w, r, termWidth(w), s.manager.Statuses())
	return nil
}
