package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/CornHusker89/MagicStorage/internal/il"
	"github.com/CornHusker89/MagicStorage/internal/styles"
	"github.com/CornHusker89/MagicStorage/internal/util"
	"golang.org/x/term"
)

// insertedMask marks the instructions of patched that are not in original.
// Edits only insert, so original is a subsequence of patched; the longest
// common subsequence recovers it even when inserted instructions repeat
// nearby original ones.
func insertedMask(original, patched *il.Body) []bool {
	n, m := original.Len(), patched.Len()
	key := func(ins *il.Instruction) string { return ins.String() }

	// lcs[i][j] is the LCS length of original[i:] and patched[j:].
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if key(original.At(i)) == key(patched.At(j)) {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	mask := make([]bool, m)
	i, j := 0, 0
	for j < m {
		switch {
		case i < n && key(original.At(i)) == key(patched.At(j)):
			i++
			j++
		case i < n && lcs[i+1][j] >= lcs[i][j+1]:
			i++
		default:
			mask[j] = true
			j++
		}
	}
	return mask
}

// writeListing prints body one instruction per line, each fitted to width.
// Lines marked in inserted get a "+" gutter.
func writeListing(w io.Writer, r styles.Renderer, width int, body *il.Body, inserted []bool) {
	for i := 0; i < body.Len(); i++ {
		offset := fmt.Sprintf("IL_%04X", i)
		text := strings.TrimPrefix(body.Format(i), offset+": ")

		gutter := "  "
		style := styles.OpcodeStyle(body.At(i).Op)
		if i < len(inserted) && inserted[i] {
			gutter = r.Render(styles.Inserted, "+ ")
			style = styles.Inserted
		}
		line := fmt.Sprintf("%s%s: %s", gutter, r.Render(styles.Offset, offset), r.Render(style, text))
		fmt.Fprintln(w, util.Fit(line, width))
	}
}

// colorEnabled resolves an output.color mode for w. In auto mode color is on
// only when w is a terminal.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the column count of w, or 0 when w is not a terminal.
func termWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
