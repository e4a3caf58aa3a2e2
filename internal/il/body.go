package il

import (
	"fmt"
	"strings"
)

// Stream is read access to an ordered instruction sequence.
type Stream interface {
	Len() int
	At(i int) *Instruction
}

// StreamEditor is a Stream that accepts insertions. Patch code should edit
// through a Cursor so the cursor's own position stays consistent after a
// shift; Insert is the primitive the Cursor builds on.
type StreamEditor interface {
	Stream
	Insert(i int, ins ...*Instruction)
}

// Body is the instruction stream of one method.
type Body struct {
	instrs []*Instruction
}

// NewBody creates a body holding instrs in order.
func NewBody(instrs ...*Instruction) *Body {
	b := &Body{instrs: make([]*Instruction, len(instrs))}
	copy(b.instrs, instrs)
	return b
}

// Len returns the number of instructions.
func (b *Body) Len() int { return len(b.instrs) }

// At returns the instruction at index i.
func (b *Body) At(i int) *Instruction { return b.instrs[i] }

// Insert splices ins in before index i. i may equal Len to append.
func (b *Body) Insert(i int, ins ...*Instruction) {
	if i < 0 || i > len(b.instrs) {
		panic(fmt.Sprintf("il: insert index %d out of range [0, %d]", i, len(b.instrs)))
	}
	if len(ins) == 0 {
		return
	}
	b.instrs = append(b.instrs, ins...)
	copy(b.instrs[i+len(ins):], b.instrs[i:])
	copy(b.instrs[i:], ins)
}

// IndexOf returns the index of ins in the body, or -1.
func (b *Body) IndexOf(ins *Instruction) int {
	for i, x := range b.instrs {
		if x == ins {
			return i
		}
	}
	return -1
}

// Instructions returns a copy of the instruction slice.
func (b *Body) Instructions() []*Instruction {
	out := make([]*Instruction, len(b.instrs))
	copy(out, b.instrs)
	return out
}

// Snapshot captures the current instruction order. Instructions are never
// mutated in place, so restoring the slice restores the body exactly.
type Snapshot struct {
	instrs []*Instruction
}

// Snapshot records the body's current state.
func (b *Body) Snapshot() Snapshot {
	return Snapshot{instrs: b.Instructions()}
}

// Restore rolls the body back to s.
func (b *Body) Restore(s Snapshot) {
	b.instrs = make([]*Instruction, len(s.instrs))
	copy(b.instrs, s.instrs)
}

// Clone deep-copies the body, remapping branch targets onto the copies.
// Targets that point outside the body are kept as-is.
func (b *Body) Clone() *Body {
	remap := make(map[*Instruction]*Instruction, len(b.instrs))
	out := &Body{instrs: make([]*Instruction, len(b.instrs))}
	for i, ins := range b.instrs {
		cp := *ins
		out.instrs[i] = &cp
		remap[ins] = &cp
	}
	for _, ins := range out.instrs {
		if ins.Target == nil {
			continue
		}
		if t, ok := remap[ins.Target]; ok {
			ins.Target = t
		}
	}
	return out
}

// Validate checks that every branch resolves to an instruction in the body
// and that operands match their opcode.
func (b *Body) Validate() error {
	for i, ins := range b.instrs {
		switch ins.Op.OperandKind() {
		case OperandBranch:
			if ins.Target == nil {
				return fmt.Errorf("IL_%04X: %s has no target", i, ins.Op)
			}
			if b.IndexOf(ins.Target) < 0 {
				return fmt.Errorf("IL_%04X: %s targets an instruction outside the body", i, ins.Op)
			}
		case OperandMethod:
			if ins.Method.IsZero() {
				return fmt.Errorf("IL_%04X: call has no method", i)
			}
		}
		if _, ok := opcodeNames[ins.Op]; !ok {
			return fmt.Errorf("IL_%04X: unknown opcode 0x%02X", i, byte(ins.Op))
		}
	}
	return nil
}

// Format renders one instruction with branch targets resolved to offsets.
func (b *Body) Format(i int) string {
	ins := b.instrs[i]
	if ins.Op.IsBranch() {
		if t := b.IndexOf(ins.Target); t >= 0 {
			return fmt.Sprintf("IL_%04X: %s IL_%04X", i, ins.Op, t)
		}
	}
	return fmt.Sprintf("IL_%04X: %s", i, ins)
}

// String returns a listing of the whole body, one instruction per line.
func (b *Body) String() string {
	var sb strings.Builder
	for i := range b.instrs {
		sb.WriteString(b.Format(i))
		sb.WriteByte('\n')
	}
	return sb.String()
}
