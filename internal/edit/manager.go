package edit

import (
	"fmt"
	"sync"

	"github.com/gobwas/glob"

	"github.com/CornHusker89/MagicStorage/internal/errors"
	"github.com/CornHusker89/MagicStorage/internal/event"
	"github.com/CornHusker89/MagicStorage/internal/logging"
)

// State is the lifecycle state of a registered edit.
type State int

const (
	Unpatched State = iota
	Patched
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Unpatched:
		return "unpatched"
	case Patched:
		return "patched"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Status describes one registered edit.
type Status struct {
	Name      string
	Enabled   bool
	State     State
	LoadError string
	Last      *Outcome
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	// Filters are glob patterns matched against edit names. An edit is enabled
	// when any filter matches; no filters enables every edit.
	Filters []string

	Wrapper *Wrapper
	Logger  *logging.Logger
	Bus     *event.Bus
}

type entry struct {
	edit    Edit
	hooks   *Hooks
	state   State
	loadErr error
}

// Manager owns the lifecycle of a set of edits against one host.
type Manager struct {
	mu      sync.Mutex
	host    Host
	wrapper *Wrapper
	logger  *logging.Logger
	bus     *event.Bus
	filters []glob.Glob
	order   []string
	edits   map[string]*entry
}

// NewManager creates a Manager. It fails if a filter pattern does not compile.
func NewManager(h Host, cfg ManagerConfig) (*Manager, error) {
	m := &Manager{
		host:    h,
		wrapper: cfg.Wrapper,
		logger:  cfg.Logger,
		bus:     cfg.Bus,
		edits:   make(map[string]*entry),
	}
	if m.logger == nil {
		m.logger = logging.NopLogger()
	}
	if m.bus == nil {
		m.bus = event.NewBus(m.logger)
	}
	if m.wrapper == nil {
		m.wrapper = NewWrapper(WrapperConfig{Atomic: true, Logger: m.logger, Bus: m.bus})
	}

	for _, pattern := range cfg.Filters {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("invalid edit filter: %v", err)).
				WithField("patching.edits").
				WithValue(pattern)
		}
		m.filters = append(m.filters, g)
	}
	return m, nil
}

// Register adds e to the manager. Registering a name twice replaces nothing
// and returns an error.
func (m *Manager) Register(e Edit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := e.Name()
	if _, ok := m.edits[name]; ok {
		return errors.NewValidationError("edit registered twice").WithField("edit").WithValue(name)
	}
	m.edits[name] = &entry{edit: e, hooks: newHooks(name, m.host, m.wrapper)}
	m.order = append(m.order, name)
	return nil
}

// Enabled reports whether the filters select the edit named name.
func (m *Manager) Enabled(name string) bool {
	if len(m.filters) == 0 {
		return true
	}
	for _, g := range m.filters {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Load installs the edit named name. Loading an edit that is already
// patched returns ErrEditAlreadyLoaded.
func (m *Manager) Load(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.edits[name]
	if !ok {
		return errors.NewNotFoundError("edit", name).WithCause(errors.ErrEditNotFound)
	}
	return m.load(ent)
}

func (m *Manager) load(ent *entry) error {
	name := ent.edit.Name()
	if ent.state == Patched {
		return errors.NewEditError(name, "cannot load", errors.ErrEditAlreadyLoaded)
	}

	if err := ent.edit.LoadEdits(ent.hooks); err != nil {
		// A partial load never leaves hooks behind.
		ent.hooks.unhookAll()
		ent.loadErr = err
		m.logger.WithEdit(name).Error("edit failed to load", "error", err)
		return errors.NewEditError(name, "load failed", err)
	}

	ent.state = Patched
	ent.loadErr = nil
	m.logger.WithEdit(name).Info("edit loaded", "hooks", ent.hooks.Installed())
	m.bus.Publish(event.NewEditLoadedEvent(name))
	return nil
}

// LoadAll loads every enabled edit that is not yet patched, in registration
// order. One edit failing does not stop the others; the failures are joined.
func (m *Manager) LoadAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, name := range m.order {
		ent := m.edits[name]
		if ent.state == Patched {
			continue
		}
		if !m.Enabled(name) {
			m.logger.WithEdit(name).Debug("edit disabled by filter")
			continue
		}
		if err := m.load(ent); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Unload removes the edit named name. Unloading an unpatched edit is a no-op.
func (m *Manager) Unload(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.edits[name]
	if !ok {
		return errors.NewNotFoundError("edit", name).WithCause(errors.ErrEditNotFound)
	}
	m.unload(ent)
	return nil
}

func (m *Manager) unload(ent *entry) {
	if ent.state != Patched {
		return
	}
	name := ent.edit.Name()
	ent.edit.UnloadEdits(ent.hooks)
	ent.hooks.unhookAll()
	ent.state = Unpatched
	m.logger.WithEdit(name).Info("edit unloaded")
	m.bus.Publish(event.NewEditUnloadedEvent(name))
}

// UnloadAll unloads every patched edit in reverse registration order.
func (m *Manager) UnloadAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.order) - 1; i >= 0; i-- {
		m.unload(m.edits[m.order[i]])
	}
}

// Status returns the status of the edit named name.
func (m *Manager) Status(name string) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.edits[name]
	if !ok {
		return Status{}, errors.NewNotFoundError("edit", name).WithCause(errors.ErrEditNotFound)
	}
	return m.status(ent), nil
}

// Statuses returns the status of every edit in registration order.
func (m *Manager) Statuses() []Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Status, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.status(m.edits[name]))
	}
	return out
}

func (m *Manager) status(ent *entry) Status {
	name := ent.edit.Name()
	s := Status{
		Name:    name,
		Enabled: m.Enabled(name),
		State:   ent.state,
	}
	if ent.loadErr != nil {
		s.LoadError = ent.loadErr.Error()
	}
	if o, ok := m.wrapper.Diagnostics().Last(name); ok {
		s.Last = &o
	}
	return s
}
