package il

import "fmt"

// MethodRef identifies a method by declaring type and name, e.g.
// Terraria.Player::useVoidBag. It is comparable and used as a map key.
type MethodRef struct {
	Type string
	Name string
}

// String renders the reference as Type::Name.
func (m MethodRef) String() string {
	return m.Type + "::" + m.Name
}

// IsZero reports whether the reference is unset.
func (m MethodRef) IsZero() bool {
	return m.Type == "" && m.Name == ""
}

// ParseMethodRef parses a Type::Name string.
func ParseMethodRef(s string) (MethodRef, error) {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == ':' && s[i+1] == ':' {
			if i == 0 || i+2 == len(s) {
				break
			}
			return MethodRef{Type: s[:i], Name: s[i+2:]}, nil
		}
	}
	return MethodRef{}, fmt.Errorf("invalid method reference %q: want Type::Name", s)
}

// Instruction is one opcode with its operand. Branch instructions point at
// their target Instruction directly, so inserting code elsewhere in the
// stream never invalidates a branch.
type Instruction struct {
	Op     Opcode
	Int    int
	Method MethodRef
	Target *Instruction
}

// Nop creates a nop instruction.
func Nop() *Instruction { return &Instruction{Op: OpNop} }

// Ldarg creates the shortest load-argument form for index n.
func Ldarg(n int) *Instruction {
	switch n {
	case 0:
		return &Instruction{Op: OpLdarg0}
	case 1:
		return &Instruction{Op: OpLdarg1}
	default:
		return &Instruction{Op: OpLdarg, Int: n}
	}
}

// LdcI4 creates an int32 constant push.
func LdcI4(v int) *Instruction { return &Instruction{Op: OpLdcI4, Int: v} }

// Pop creates a pop instruction.
func Pop() *Instruction { return &Instruction{Op: OpPop} }

// Call creates a call to m.
func Call(m MethodRef) *Instruction { return &Instruction{Op: OpCall, Method: m} }

// Ret creates a return instruction.
func Ret() *Instruction { return &Instruction{Op: OpRet} }

// Br creates an unconditional branch to target.
func Br(target *Instruction) *Instruction { return &Instruction{Op: OpBr, Target: target} }

// Brtrue creates a branch taken when the popped value is true.
func Brtrue(target *Instruction) *Instruction { return &Instruction{Op: OpBrtrue, Target: target} }

// Brfalse creates a branch taken when the popped value is false.
func Brfalse(target *Instruction) *Instruction { return &Instruction{Op: OpBrfalse, Target: target} }

// ArgIndex returns the argument index loaded by an ldarg form.
func (ins *Instruction) ArgIndex() (int, bool) {
	switch ins.Op {
	case OpLdarg0:
		return 0, true
	case OpLdarg1:
		return 1, true
	case OpLdarg:
		return ins.Int, true
	}
	return 0, false
}

// String renders the instruction without an offset. Branch targets are shown
// as "->?" because resolving them needs the enclosing Body.
func (ins *Instruction) String() string {
	switch ins.Op.OperandKind() {
	case OperandInt:
		return fmt.Sprintf("%s %d", ins.Op, ins.Int)
	case OperandMethod:
		return fmt.Sprintf("%s %s", ins.Op, ins.Method)
	case OperandBranch:
		return fmt.Sprintf("%s ->?", ins.Op)
	default:
		return ins.Op.String()
	}
}
