// Package host simulates the runtime that owns compiled method bodies: it
// resolves methods by name, publishes a compile event per method so hooks can
// rewrite the body, and executes the result.
package host

import (
	"strings"
	"sync"

	"github.com/CornHusker89/MagicStorage/internal/errors"
	"github.com/CornHusker89/MagicStorage/internal/event"
	"github.com/CornHusker89/MagicStorage/internal/il"
	"github.com/CornHusker89/MagicStorage/internal/logging"
)

// BindingFlags filters a method lookup.
type BindingFlags int

const (
	Public BindingFlags = 1 << iota
	NonPublic
	Instance
	Static
)

// String lists the set flags, e.g. "Public|Instance".
func (f BindingFlags) String() string {
	var parts []string
	for _, p := range []struct {
		flag BindingFlags
		name string
	}{{Public, "Public"}, {NonPublic, "NonPublic"}, {Instance, "Instance"}, {Static, "Static"}} {
		if f&p.flag != 0 {
			parts = append(parts, p.name)
		}
	}
	if len(parts) == 0 {
		return "Default"
	}
	return strings.Join(parts, "|")
}

// NativeFunc implements a method in Go. args holds the popped arguments in
// declaration order; the return value is ignored unless the method Returns.
type NativeFunc func(args []any) any

// Method describes one method known to the runtime. Exactly one of Body and
// Native is set.
type Method struct {
	Ref     il.MethodRef
	Public  bool
	Static  bool
	Params  int
	Returns bool
	Body    *il.Body
	Native  NativeFunc
}

func (m *Method) matches(flags BindingFlags) bool {
	if flags&(Public|NonPublic) != 0 {
		if m.Public && flags&Public == 0 {
			return false
		}
		if !m.Public && flags&NonPublic == 0 {
			return false
		}
	}
	if flags&(Instance|Static) != 0 {
		if m.Static && flags&Static == 0 {
			return false
		}
		if !m.Static && flags&Instance == 0 {
			return false
		}
	}
	return true
}

// Runtime holds method definitions and their compiled bodies.
type Runtime struct {
	bus    *event.Bus
	logger *logging.Logger

	mu       sync.Mutex
	methods  map[il.MethodRef][]*Method
	compiled map[il.MethodRef]*il.Body
	hooks    map[string]il.MethodRef
}

// New creates a runtime that publishes compile events on bus.
func New(bus *event.Bus, logger *logging.Logger) *Runtime {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Runtime{
		bus:      bus,
		logger:   logger,
		methods:  make(map[il.MethodRef][]*Method),
		compiled: make(map[il.MethodRef]*il.Body),
		hooks:    make(map[string]il.MethodRef),
	}
}

// Bus returns the event bus compile events are published on.
func (r *Runtime) Bus() *event.Bus { return r.bus }

// Define registers m. Defining a second method with the same Ref adds an
// overload, which makes name lookups for it ambiguous.
func (r *Runtime) Define(m *Method) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.methods[m.Ref] = append(r.methods[m.Ref], m)
	delete(r.compiled, m.Ref)
}

// DefineMethod registers a public instance method implemented by body.
func (r *Runtime) DefineMethod(ref il.MethodRef, params int, returns bool, body *il.Body) {
	r.Define(&Method{Ref: ref, Public: true, Params: params, Returns: returns, Body: body})
}

// DefineNative registers a public instance method implemented in Go.
func (r *Runtime) DefineNative(ref il.MethodRef, params int, returns bool, fn NativeFunc) {
	r.Define(&Method{Ref: ref, Public: true, Params: params, Returns: returns, Native: fn})
}

// LookupMethod resolves typeName::name among methods matching flags. It fails
// when nothing matches or when the match is ambiguous.
func (r *Runtime) LookupMethod(typeName, name string, flags BindingFlags) (il.MethodRef, error) {
	ref := il.MethodRef{Type: typeName, Name: name}
	r.mu.Lock()
	defer r.mu.Unlock()

	var found []*Method
	for _, m := range r.methods[ref] {
		if m.matches(flags) {
			found = append(found, m)
		}
	}
	switch len(found) {
	case 0:
		return il.MethodRef{}, errors.NewResolutionError(typeName, name, errors.ErrMethodNotFound)
	case 1:
		return ref, nil
	default:
		return il.MethodRef{}, errors.NewResolutionError(typeName, name, errors.ErrAmbiguousMethod)
	}
}

func (r *Runtime) method(ref il.MethodRef) (*Method, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ms := r.methods[ref]
	switch len(ms) {
	case 0:
		return nil, errors.NewResolutionError(ref.Type, ref.Name, errors.ErrMethodNotFound)
	case 1:
		return ms[0], nil
	default:
		return nil, errors.NewResolutionError(ref.Type, ref.Name, errors.ErrAmbiguousMethod)
	}
}

// Hook subscribes m to compile passes of method and drops any cached
// compilation so the next call recompiles with the hook applied.
func (r *Runtime) Hook(method il.MethodRef, m il.Manipulator) string {
	id := r.bus.Subscribe(event.CompileEventType(method), func(e event.Event) {
		ev, ok := e.(*event.MethodCompilingEvent)
		if !ok {
			return
		}
		if err := m(ev.Context); err != nil {
			ev.Fail(err)
		}
	})

	r.mu.Lock()
	r.hooks[id] = method
	delete(r.compiled, method)
	r.mu.Unlock()
	return id
}

// Unhook removes a hook installed by Hook. It returns false if id is unknown.
func (r *Runtime) Unhook(id string) bool {
	r.mu.Lock()
	method, ok := r.hooks[id]
	if ok {
		delete(r.hooks, id)
		delete(r.compiled, method)
	}
	r.mu.Unlock()

	if !ok {
		return false
	}
	return r.bus.Unsubscribe(id)
}

// Compile produces the executable body of ref: a fresh copy of the original
// body, passed through every hook. A hook error fails the compile and
// nothing is cached.
func (r *Runtime) Compile(ref il.MethodRef) (*il.Body, error) {
	r.mu.Lock()
	if body, ok := r.compiled[ref]; ok {
		r.mu.Unlock()
		return body, nil
	}
	r.mu.Unlock()

	m, err := r.method(ref)
	if err != nil {
		return nil, err
	}
	if m.Body == nil {
		return nil, errors.Wrapf(errors.ErrNoMethodBody, "compiling %s", ref)
	}

	ctx := il.NewContext(ref, m.Body.Clone())
	ev := event.NewMethodCompilingEvent(ctx)
	r.bus.Publish(ev)

	if errs := ev.Errors(); len(errs) > 0 {
		r.logger.Error("compile failed", "method", ref.String(), "errors", len(errs))
		return nil, errors.Wrapf(errors.Join(errs...), "compiling %s", ref)
	}
	if err := ctx.Body.Validate(); err != nil {
		return nil, errors.Wrapf(err, "compiling %s: invalid body after hooks", ref)
	}

	r.mu.Lock()
	r.compiled[ref] = ctx.Body
	r.mu.Unlock()

	r.logger.Debug("compiled method", "method", ref.String(),
		"original_len", m.Body.Len(), "compiled_len", ctx.Body.Len())
	return ctx.Body, nil
}
