package il

// Predicate tests a single instruction. Predicates that capture operand
// data write through a pointer supplied when the predicate was built.
type Predicate func(ins *Instruction) bool

// Pattern is an ordered list of predicates matched against a window of
// len(Pattern) consecutive instructions.
type Pattern []Predicate

// MatchAt reports whether the window starting at start satisfies every
// predicate in order. It stops at the first failing predicate.
func (p Pattern) MatchAt(s Stream, start int) bool {
	if start < 0 || start+len(p) > s.Len() {
		return false
	}
	for i, pred := range p {
		if !pred(s.At(start + i)) {
			return false
		}
	}
	return true
}

// MatchOp matches any instruction with opcode op.
func MatchOp(op Opcode) Predicate {
	return func(ins *Instruction) bool { return ins.Op == op }
}

// MatchLdarg matches any ldarg form loading argument n.
func MatchLdarg(n int) Predicate {
	return func(ins *Instruction) bool {
		idx, ok := ins.ArgIndex()
		return ok && idx == n
	}
}

// MatchCall matches a call to m.
func MatchCall(m MethodRef) Predicate {
	return func(ins *Instruction) bool {
		return ins.Op == OpCall && ins.Method == m
	}
}

// MatchLdcI4 matches an int constant push of v.
func MatchLdcI4(v int) Predicate {
	return func(ins *Instruction) bool {
		return ins.Op == OpLdcI4 && ins.Int == v
	}
}

func matchBranch(op Opcode, target **Instruction) Predicate {
	return func(ins *Instruction) bool {
		if ins.Op != op {
			return false
		}
		if target != nil {
			*target = ins.Target
		}
		return true
	}
}

// MatchBrtrue matches a brtrue and stores its target in *target when target
// is non-nil.
func MatchBrtrue(target **Instruction) Predicate { return matchBranch(OpBrtrue, target) }

// MatchBrfalse matches a brfalse and stores its target in *target when target
// is non-nil.
func MatchBrfalse(target **Instruction) Predicate { return matchBranch(OpBrfalse, target) }

// MatchBr matches an unconditional branch.
func MatchBr(target **Instruction) Predicate { return matchBranch(OpBr, target) }

// MatchRet matches a return.
func MatchRet() Predicate { return MatchOp(OpRet) }
