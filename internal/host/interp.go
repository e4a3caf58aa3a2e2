package host

import (
	"fmt"

	"github.com/CornHusker89/MagicStorage/internal/il"
)

// maxSteps bounds a single Invoke so a malformed body cannot hang the caller.
const maxSteps = 1 << 20

// Invoke compiles ref if needed and runs it with args. It returns the
// method's return value, or nil for methods that return nothing.
func (r *Runtime) Invoke(ref il.MethodRef, args ...any) (any, error) {
	return r.invoke(ref, args, 0)
}

func (r *Runtime) invoke(ref il.MethodRef, args []any, depth int) (any, error) {
	if depth > 64 {
		return nil, fmt.Errorf("invoking %s: call depth exceeded", ref)
	}

	m, err := r.method(ref)
	if err != nil {
		return nil, err
	}
	if len(args) != m.Params {
		return nil, fmt.Errorf("invoking %s: got %d args, want %d", ref, len(args), m.Params)
	}
	if m.Native != nil {
		return m.Native(args), nil
	}

	body, err := r.Compile(ref)
	if err != nil {
		return nil, err
	}
	return r.run(m, body, args, depth)
}

func (r *Runtime) run(m *Method, body *il.Body, args []any, depth int) (any, error) {
	offsets := make(map[*il.Instruction]int, body.Len())
	for i := 0; i < body.Len(); i++ {
		offsets[body.At(i)] = i
	}

	var stack []any
	pop := func(pc int) (any, error) {
		if len(stack) == 0 {
			return nil, fmt.Errorf("%s IL_%04X: stack underflow", m.Ref, pc)
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}

	pc := 0
	for steps := 0; ; steps++ {
		if steps >= maxSteps {
			return nil, fmt.Errorf("%s: step limit exceeded", m.Ref)
		}
		if pc >= body.Len() {
			return nil, fmt.Errorf("%s: fell off the end of the body", m.Ref)
		}

		ins := body.At(pc)
		next := pc + 1
		switch ins.Op {
		case il.OpNop:
		case il.OpLdarg0, il.OpLdarg1, il.OpLdarg:
			idx, _ := ins.ArgIndex()
			if idx < 0 || idx >= len(args) {
				return nil, fmt.Errorf("%s IL_%04X: argument %d out of range", m.Ref, pc, idx)
			}
			stack = append(stack, args[idx])
		case il.OpLdcI4:
			stack = append(stack, ins.Int)
		case il.OpPop:
			if _, err := pop(pc); err != nil {
				return nil, err
			}
		case il.OpCall:
			callee, err := r.method(ins.Method)
			if err != nil {
				return nil, err
			}
			if len(stack) < callee.Params {
				return nil, fmt.Errorf("%s IL_%04X: stack underflow calling %s", m.Ref, pc, ins.Method)
			}
			argv := make([]any, callee.Params)
			copy(argv, stack[len(stack)-callee.Params:])
			stack = stack[:len(stack)-callee.Params]

			result, err := r.invoke(ins.Method, argv, depth+1)
			if err != nil {
				return nil, err
			}
			if callee.Returns {
				stack = append(stack, result)
			}
		case il.OpBr:
			next = offsets[ins.Target]
		case il.OpBrtrue, il.OpBrfalse:
			v, err := pop(pc)
			if err != nil {
				return nil, err
			}
			if truthy(v) == (ins.Op == il.OpBrtrue) {
				next = offsets[ins.Target]
			}
		case il.OpRet:
			if !m.Returns {
				return nil, nil
			}
			return pop(pc)
		default:
			return nil, fmt.Errorf("%s IL_%04X: unsupported opcode %s", m.Ref, pc, ins.Op)
		}
		pc = next
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	default:
		return true
	}
}
