package il

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// BodyFile is the on-disk form of a method body. It is written as YAML for
// editing by hand, or as CBOR (files ending in .cbor) for compact snapshots.
type BodyFile struct {
	// Method is the method the body belongs to, as Type::Name.
	Method string `yaml:"method" cbor:"1,keyasint,omitempty"`
	// Instructions lists the body in order.
	Instructions []InstructionSpec `yaml:"instructions" cbor:"2,keyasint"`
}

// InstructionSpec is one instruction in a BodyFile. Branch targets refer to
// the Label of another instruction.
type InstructionSpec struct {
	Label  string `yaml:"label,omitempty" cbor:"1,keyasint,omitempty"`
	Op     string `yaml:"op" cbor:"2,keyasint"`
	Arg    *int   `yaml:"arg,omitempty" cbor:"3,keyasint,omitempty"`
	Method string `yaml:"method,omitempty" cbor:"4,keyasint,omitempty"`
	Target string `yaml:"target,omitempty" cbor:"5,keyasint,omitempty"`
}

// CBORExt is the file extension that selects the CBOR encoding.
const CBORExt = ".cbor"

// DecodeBody parses a YAML method body.
func DecodeBody(data []byte) (MethodRef, *Body, error) {
	var f BodyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return MethodRef{}, nil, fmt.Errorf("parsing method body: %w", err)
	}
	return f.Build()
}

// DecodeBodyCBOR parses a CBOR method body.
func DecodeBodyCBOR(data []byte) (MethodRef, *Body, error) {
	var f BodyFile
	if err := cbor.Unmarshal(data, &f); err != nil {
		return MethodRef{}, nil, fmt.Errorf("parsing method body: %w", err)
	}
	return f.Build()
}

// LoadBodyFile reads and decodes the method body at path, picking the
// encoding from its extension.
func LoadBodyFile(path string) (MethodRef, *Body, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MethodRef{}, nil, fmt.Errorf("reading method body: %w", err)
	}
	if filepath.Ext(path) == CBORExt {
		return DecodeBodyCBOR(data)
	}
	return DecodeBody(data)
}

// WriteBodyFile encodes body to path, picking the encoding from its
// extension.
func WriteBodyFile(path string, method MethodRef, body *Body) error {
	encode := EncodeBody
	if filepath.Ext(path) == CBORExt {
		encode = EncodeBodyCBOR
	}
	data, err := encode(method, body)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing method body: %w", err)
	}
	return nil
}

// Build converts the file form into a Body, resolving labels.
func (f *BodyFile) Build() (MethodRef, *Body, error) {
	var method MethodRef
	if f.Method != "" {
		m, err := ParseMethodRef(f.Method)
		if err != nil {
			return MethodRef{}, nil, err
		}
		method = m
	}

	instrs := make([]*Instruction, len(f.Instructions))
	labels := make(map[string]*Instruction)
	for i, spec := range f.Instructions {
		op, ok := ParseOpcode(spec.Op)
		if !ok {
			return MethodRef{}, nil, fmt.Errorf("instruction %d: unknown opcode %q", i, spec.Op)
		}
		ins := &Instruction{Op: op}
		switch op.OperandKind() {
		case OperandInt:
			if spec.Arg == nil {
				return MethodRef{}, nil, fmt.Errorf("instruction %d: %s requires arg", i, op)
			}
			ins.Int = *spec.Arg
		case OperandMethod:
			m, err := ParseMethodRef(spec.Method)
			if err != nil {
				return MethodRef{}, nil, fmt.Errorf("instruction %d: %w", i, err)
			}
			ins.Method = m
		}
		if spec.Label != "" {
			if _, dup := labels[spec.Label]; dup {
				return MethodRef{}, nil, fmt.Errorf("instruction %d: duplicate label %q", i, spec.Label)
			}
			labels[spec.Label] = ins
		}
		instrs[i] = ins
	}

	for i, spec := range f.Instructions {
		if !instrs[i].Op.IsBranch() {
			continue
		}
		target, ok := labels[spec.Target]
		if !ok {
			return MethodRef{}, nil, fmt.Errorf("instruction %d: undefined label %q", i, spec.Target)
		}
		instrs[i].Target = target
	}

	return method, NewBody(instrs...), nil
}

// EncodeBody renders body as YAML. Branch targets get generated labels
// named after their offset.
func EncodeBody(method MethodRef, body *Body) ([]byte, error) {
	f, err := newBodyFile(method, body)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(f)
}

// EncodeBodyCBOR renders body as CBOR, labelled the same way as EncodeBody.
func EncodeBodyCBOR(method MethodRef, body *Body) ([]byte, error) {
	f, err := newBodyFile(method, body)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(f)
}

func newBodyFile(method MethodRef, body *Body) (*BodyFile, error) {
	f := &BodyFile{Instructions: make([]InstructionSpec, body.Len())}
	if !method.IsZero() {
		f.Method = method.String()
	}

	label := func(ins *Instruction) (string, error) {
		idx := body.IndexOf(ins)
		if idx < 0 {
			return "", fmt.Errorf("branch target outside body")
		}
		return fmt.Sprintf("IL_%04X", idx), nil
	}

	for i := 0; i < body.Len(); i++ {
		ins := body.At(i)
		spec := InstructionSpec{Op: ins.Op.String()}
		switch ins.Op.OperandKind() {
		case OperandInt:
			v := ins.Int
			spec.Arg = &v
		case OperandMethod:
			spec.Method = ins.Method.String()
		case OperandBranch:
			name, err := label(ins.Target)
			if err != nil {
				return nil, fmt.Errorf("instruction %d: %w", i, err)
			}
			spec.Target = name
			f.Instructions[body.IndexOf(ins.Target)].Label = name
		}
		// A label may already have been assigned by an earlier backward branch.
		if f.Instructions[i].Label != "" {
			spec.Label = f.Instructions[i].Label
		}
		f.Instructions[i] = spec
	}
	return f, nil
}
