package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/CornHusker89/MagicStorage/internal/il"
	"github.com/CornHusker89/MagicStorage/internal/logging"
	"github.com/CornHusker89/MagicStorage/internal/styles"
	"github.com/CornHusker89/MagicStorage/internal/terraria"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply [body.yaml]",
	Short: "Apply edits to a method body and print the result",
	Long: `Apply loads a QuickStackAllChests body, runs every enabled edit against it
and prints the patched listing. Inserted instructions are marked with "+".

Without an argument the bundled vanilla body is used. A suppressed patch
failure leaves the body unchanged and is reported below the listing; set
patching.failure_policy to propagate to make it fail the command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runApply,
}

var (
	applyOut   string
	applyWatch bool
)

// watchDebounce coalesces the burst of events editors emit for one save.
const watchDebounce = 100 * time.Millisecond

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVarP(&applyOut, "out", "o", "", "write the patched body to this file (.cbor for binary)")
	applyCmd.Flags().BoolVarP(&applyWatch, "watch", "w", false, "re-apply whenever the body file changes")
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer logger.Close()

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	if applyWatch && path == "" {
		return fmt.Errorf("--watch needs a body file")
	}

	out := cmd.OutOrStdout()
	r := styles.NewRenderer(colorEnabled(cfg.Output.Color, out))
	run := func() error {
		return applyOnce(out, r, path, applyOut, func(body *il.Body) (*session, error) {
			return newSession(cfg, body, logger)
		})
	}

	if !applyWatch {
		return run()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), r.Render(styles.Error, err.Error()))
	}
	return watchBody(ctx, path, logger, func() {
		fmt.Fprintln(out)
		if err := run(); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), r.Render(styles.Error, err.Error()))
		}
	})
}

// applyOnce patches the body at path (or the vanilla body) in a fresh
// session, prints the listing and edit report, and writes the patched body
// to outPath if set.
func applyOnce(w io.Writer, r styles.Renderer, path, outPath string, open func(*il.Body) (*session, error)) error {
	var body *il.Body
	if path != "" {
		b, err := loadBody(path)
		if err != nil {
			return err
		}
		body = b
	}

	s, err := open(body)
	if err != nil {
		return err
	}
	defer s.close()

	patched, err := s.apply()
	if err != nil {
		return err
	}

	source := path
	if source == "" {
		source = "(vanilla)"
	}
	fmt.Fprintln(w, r.Render(styles.Title, terraria.QuickStackAllChests.String()))
	fmt.Fprintln(w, r.Render(styles.Subtitle, fmt.Sprintf("%s: %d -> %d instructions",
		source, s.original.Len(), patched.Len())))
	fmt.Fprintln(w)
	width := termWidth(w)
	writeListing(w, r, width, patched, insertedMask(s.original, patched))
	fmt.Fprintln(w)
	writeStatuses(w, r, width, s.manager.Statuses())

	if outPath != "" {
		if err := il.WriteBodyFile(outPath, terraria.QuickStackAllChests, patched); err != nil {
			return err
		}
		fmt.Fprintf(w, "\nPatched body written to %s\n", outPath)
	}
	return nil
}

// watchBody calls onChange after each write to path until ctx is done.
func watchBody(ctx context.Context, path string, logger *logging.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file rather than write it
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	target := filepath.Base(abs)

	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			logger.Debug("body changed, re-applying", "path", abs)
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err.Error())
		}
	}
}
