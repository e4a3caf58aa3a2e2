package il

import "testing"

func TestMatchLdarg(t *testing.T) {
	tests := []struct {
		ins  *Instruction
		n    int
		want bool
	}{
		{Ldarg(0), 0, true},
		{Ldarg(1), 1, true},
		{Ldarg(5), 5, true},
		{Ldarg(1), 0, false},
		{LdcI4(0), 0, false},
	}

	for _, tt := range tests {
		if got := MatchLdarg(tt.n)(tt.ins); got != tt.want {
			t.Errorf("MatchLdarg(%d)(%s) = %v, want %v", tt.n, tt.ins, got, tt.want)
		}
	}
}

func TestMatchCall(t *testing.T) {
	m := MethodRef{Type: "T", Name: "m"}
	other := MethodRef{Type: "T", Name: "other"}

	if !MatchCall(m)(Call(m)) {
		t.Error("MatchCall should match the same method")
	}
	if MatchCall(m)(Call(other)) {
		t.Error("MatchCall should not match a different method")
	}
	if MatchCall(m)(Ret()) {
		t.Error("MatchCall should not match a non-call")
	}
}

func TestPattern_MatchAtShortCircuits(t *testing.T) {
	body := NewBody(Nop(), Ret())
	calls := 0
	counting := func(ins *Instruction) bool {
		calls++
		return true
	}

	p := Pattern{MatchRet(), counting}
	if p.MatchAt(body, 0) {
		t.Error("pattern should not match at 0")
	}
	if calls != 0 {
		t.Errorf("second predicate ran %d times after first failed, want 0", calls)
	}
}

func TestPattern_MatchAtBounds(t *testing.T) {
	body := NewBody(Ret())
	p := Pattern{MatchRet(), MatchRet()}

	if p.MatchAt(body, 0) {
		t.Error("window longer than remaining stream must not match")
	}
	if p.MatchAt(body, -1) {
		t.Error("negative start must not match")
	}
}

func TestOpcode_String(t *testing.T) {
	if got := OpBrtrue.String(); got != "brtrue" {
		t.Errorf("OpBrtrue.String() = %q, want %q", got, "brtrue")
	}
	if got := Opcode(0xFF).String(); got != "UNKNOWN(0xFF)" {
		t.Errorf("Opcode(0xFF).String() = %q, want %q", got, "UNKNOWN(0xFF)")
	}
	if op, ok := ParseOpcode("ldarg.0"); !ok || op != OpLdarg0 {
		t.Errorf("ParseOpcode(ldarg.0) = %v, %v", op, ok)
	}
}
