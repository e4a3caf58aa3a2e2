package il

import "fmt"

// Opcode identifies the operation an Instruction performs.
type Opcode byte

const (
	OpNop     Opcode = 0x00 // No operation
	OpLdarg0  Opcode = 0x02 // Push argument 0
	OpLdarg1  Opcode = 0x03 // Push argument 1
	OpLdarg   Opcode = 0x0E // Push argument: ldarg <index>
	OpLdcI4   Opcode = 0x20 // Push int32 constant: ldc.i4 <value>
	OpPop     Opcode = 0x26 // Pop top of stack
	OpCall    Opcode = 0x28 // Call method: call <method>
	OpRet     Opcode = 0x2A // Return from method
	OpBr      Opcode = 0x38 // Unconditional branch: br <target>
	OpBrfalse Opcode = 0x39 // Branch if top is false: brfalse <target>
	OpBrtrue  Opcode = 0x3A // Branch if top is true: brtrue <target>
)

var opcodeNames = map[Opcode]string{
	OpNop:     "nop",
	OpLdarg0:  "ldarg.0",
	OpLdarg1:  "ldarg.1",
	OpLdarg:   "ldarg",
	OpLdcI4:   "ldc.i4",
	OpPop:     "pop",
	OpCall:    "call",
	OpRet:     "ret",
	OpBr:      "br",
	OpBrfalse: "brfalse",
	OpBrtrue:  "brtrue",
}

var opcodesByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}()

// String returns the mnemonic for the opcode.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))
}

// ParseOpcode looks up an opcode by mnemonic.
func ParseOpcode(name string) (Opcode, bool) {
	op, ok := opcodesByName[name]
	return op, ok
}

// IsBranch reports whether the opcode takes a branch target operand.
func (op Opcode) IsBranch() bool {
	switch op {
	case OpBr, OpBrtrue, OpBrfalse:
		return true
	}
	return false
}

// IsConditionalBranch reports whether the opcode pops a condition before branching.
func (op Opcode) IsConditionalBranch() bool {
	return op == OpBrtrue || op == OpBrfalse
}

// OperandKind describes what operand an opcode expects.
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandInt
	OperandMethod
	OperandBranch
)

// OperandKind returns the operand kind the opcode expects.
func (op Opcode) OperandKind() OperandKind {
	switch op {
	case OpLdarg, OpLdcI4:
		return OperandInt
	case OpCall:
		return OperandMethod
	case OpBr, OpBrtrue, OpBrfalse:
		return OperandBranch
	default:
		return OperandNone
	}
}
