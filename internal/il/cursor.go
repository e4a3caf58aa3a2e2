package il

import "fmt"

// MoveType selects where a successful search leaves the cursor relative to
// the matched window.
type MoveType int

const (
	// Before leaves the cursor on the first instruction of the match.
	Before MoveType = iota
	// After leaves the cursor just past the last instruction of the match.
	After
)

// String returns the move type name.
func (m MoveType) String() string {
	if m == After {
		return "after"
	}
	return "before"
}

// Cursor is a position within a StreamEditor. The index is always within
// [0, Len]; index Len means end of stream.
type Cursor struct {
	stream StreamEditor
	index  int
	// onMatch is set when the last search left the cursor Before a match, so
	// the next search starts one past it instead of returning the same window.
	onMatch bool
}

// NewCursor creates a cursor at the start of s.
func NewCursor(s StreamEditor) *Cursor {
	return &Cursor{stream: s}
}

// Stream returns the underlying stream.
func (c *Cursor) Stream() StreamEditor { return c.stream }

// Index returns the current position.
func (c *Cursor) Index() int { return c.index }

// SetIndex repositions the cursor. It panics if i is outside [0, Len]; an
// out-of-range seek is a bug in the patch, not a condition to recover from.
func (c *Cursor) SetIndex(i int) {
	if i < 0 || i > c.stream.Len() {
		panic(fmt.Sprintf("il: cursor index %d out of range [0, %d]", i, c.stream.Len()))
	}
	c.index = i
	c.onMatch = false
}

// Move shifts the cursor by delta without scanning.
func (c *Cursor) Move(delta int) {
	c.SetIndex(c.index + delta)
}

// Next returns the instruction at the cursor, or nil at end of stream.
func (c *Cursor) Next() *Instruction {
	if c.index >= c.stream.Len() {
		return nil
	}
	return c.stream.At(c.index)
}

// Prev returns the instruction just before the cursor, or nil at the start.
func (c *Cursor) Prev() *Instruction {
	if c.index == 0 {
		return nil
	}
	return c.stream.At(c.index - 1)
}

// AtEnd reports whether the cursor is at end of stream.
func (c *Cursor) AtEnd() bool { return c.index >= c.stream.Len() }

// FindNext returns the start index of the first window at or after from that
// satisfies pattern. The cursor is not moved.
func (c *Cursor) FindNext(from int, pattern Pattern) (int, bool) {
	if len(pattern) == 0 {
		return 0, false
	}
	for start := from; start+len(pattern) <= c.stream.Len(); start++ {
		if pattern.MatchAt(c.stream, start) {
			return start, true
		}
	}
	return 0, false
}

// GotoNext scans forward from the cursor for the first window matching the
// predicates and moves the cursor Before or After it. When nothing matches it
// returns false and leaves the cursor at end of stream.
func (c *Cursor) GotoNext(mt MoveType, predicates ...Predicate) bool {
	from := c.index
	if c.onMatch {
		from++
	}
	start, ok := c.FindNext(from, Pattern(predicates))
	if !ok {
		c.index = c.stream.Len()
		c.onMatch = false
		return false
	}
	if mt == After {
		c.index = start + len(predicates)
		c.onMatch = false
	} else {
		c.index = start
		c.onMatch = true
	}
	return true
}

// Emit inserts ins at the cursor and advances past them, so a following
// search never re-matches freshly inserted code.
func (c *Cursor) Emit(ins ...*Instruction) {
	c.stream.Insert(c.index, ins...)
	c.index += len(ins)
	c.onMatch = false
}
