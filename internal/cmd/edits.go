package cmd

import (
	"fmt"
	"io"

	"github.com/CornHusker89/MagicStorage/internal/edit"
	"github.com/CornHusker89/MagicStorage/internal/il"
	"github.com/CornHusker89/MagicStorage/internal/styles"
	"github.com/CornHusker89/MagicStorage/internal/util"
	"github.com/spf13/cobra"
)

var editsCmd = &cobra.Command{
	Use:   "edits",
	Short: "List edits and whether they apply",
	Long: `Edits loads every registered edit against a QuickStackAllChests body and
reports, per edit, whether it is enabled by patching.edits and whether its
patch succeeded. Use --body to check against a body other than vanilla.`,
	Args: cobra.NoArgs,
	RunE: runEdits,
}

var editsBody string

func init() {
	rootCmd.AddCommand(editsCmd)
	editsCmd.Flags().StringVar(&editsBody, "body", "", "method body file to check edits against")
}

func runEdits(cmd *cobra.Command, args []string) error {
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
	if editsBody != "" {
		if body, err = loadBody(editsBody); err != nil {
			return err
		}
	}

	s, err := newSession(cfg, body, logger)
	if err != nil {
		return err
	}
	defer s.close()

	// A propagated failure is still reported through the statuses below.
	_, applyErr := s.apply()

	out := cmd.OutOrStdout()
	writeStatuses(out, styles.NewRenderer(colorEnabled(cfg.Output.Color, out)), termWidth(out), s.manager.Statuses())
	return applyErr
}

// statusName maps an edit status to the keys styles understands.
func statusName(st edit.Status) string {
	switch {
	case !st.Enabled:
		return "disabled"
	case st.LoadError != "":
		return "failed"
	case st.Last != nil && !st.Last.Success:
		return "failed"
	case st.State == edit.Patched && st.Last != nil:
		return "patched"
	default:
		return "unpatched"
	}
}

// writeStatuses prints one block per edit: its status line and, when there is
// one, the load error, failure reason or patch summary fitted to width.
func writeStatuses(w io.Writer, r styles.Renderer, width int, statuses []edit.Status) {
	fmt.Fprintln(w, r.Render(styles.Title, "Edits"))
	for _, st := range statuses {
		name := statusName(st)
		icon := r.Render(styles.Text.Foreground(styles.StatusColor(name)), styles.StatusIcon(name))
		fmt.Fprintf(w, "  %s %s %s\n", icon, st.Name, r.Render(styles.Muted, name))

		switch {
		case st.LoadError != "":
			fmt.Fprintln(w, util.Fit("      "+r.Render(styles.Error, st.LoadError), width))
		case st.Last != nil && !st.Last.Success:
			detail := st.Last.Reason
			if st.Last.RolledBack {
				detail += " (rolled back)"
			}
			fmt.Fprintln(w, util.Fit("      "+r.Render(styles.Warning, detail), width))
		case st.Last != nil:
			summary := fmt.Sprintf("%s: %d instructions inserted", st.Last.Method, st.Last.Inserted)
			fmt.Fprintln(w, util.Fit("      "+r.Render(styles.Muted, summary), width))
		}
	}
}
