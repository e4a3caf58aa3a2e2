package cmd

import (
	"fmt"
	"io"

	"github.com/CornHusker89/MagicStorage/internal/config"
	"github.com/CornHusker89/MagicStorage/internal/edit"
	"github.com/CornHusker89/MagicStorage/internal/event"
	"github.com/CornHusker89/MagicStorage/internal/host"
	"github.com/CornHusker89/MagicStorage/internal/il"
	"github.com/CornHusker89/MagicStorage/internal/logging"
	"github.com/CornHusker89/MagicStorage/internal/quickstack"
	"github.com/CornHusker89/MagicStorage/internal/storage"
	"github.com/CornHusker89/MagicStorage/internal/terraria"
)

// session is one simulated game process: a runtime with the Player methods
// defined, the storage world the quick stack handler targets, and the edit
// manager that patches the runtime.
type session struct {
	cfg      *config.Config
	logger   *logging.Logger
	runtime  *host.Runtime
	game     *terraria.Game
	trace    *terraria.Trace
	player   *terraria.Player
	world    *storage.World
	loopback *storage.Loopback
	manager  *edit.Manager
	wrapper  *edit.Wrapper

	// original is the unpatched QuickStackAllChests body.
	original *il.Body
}

// newSession builds a session around body. A nil body uses the vanilla
// QuickStackAllChests.
func newSession(cfg *config.Config, body *il.Body, logger *logging.Logger) (*session, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	if body == nil {
		vanilla, err := terraria.QuickStackAllChestsBody()
		if err != nil {
			return nil, err
		}
		body = vanilla
	}

	bus := event.NewBus(logger)
	s := &session{
		cfg:      cfg,
		logger:   logger,
		runtime:  host.New(bus, logger),
		game:     &terraria.Game{},
		trace:    &terraria.Trace{},
		player:   terraria.NewPlayer(0),
		world:    storage.NewWorld(),
		original: body.Clone(),
	}
	if err := terraria.RegisterWith(s.runtime, s.game, s.trace, body); err != nil {
		return nil, err
	}

	s.loopback = storage.NewLoopback(s.world, s.player, logger)
	quickstack.RegisterHandler(s.runtime, &quickstack.Handler{
		Game:     s.game,
		Locator:  s.world,
		Transfer: s.world,
		Net:      s.loopback,
		UI:       s.world,
		Logger:   logger,
	})

	var override *edit.FailurePolicy
	if cfg.Patching.FailurePolicy != "" {
		p, err := edit.ParseFailurePolicy(cfg.Patching.FailurePolicy)
		if err != nil {
			return nil, err
		}
		override = &p
	}
	s.wrapper = edit.NewWrapper(edit.WrapperConfig{
		Atomic:   cfg.Patching.Atomic,
		Override: override,
		Logger:   logger,
		Bus:      bus,
	})

	m, err := edit.NewManager(s.runtime, edit.ManagerConfig{
		Filters: cfg.Patching.Edits,
		Wrapper: s.wrapper,
		Logger:  logger,
		Bus:     bus,
	})
	if err != nil {
		return nil, err
	}
	if err := m.Register(quickstack.NewEdit()); err != nil {
		return nil, err
	}
	s.manager = m
	return s, nil
}

// apply loads every enabled edit and compiles QuickStackAllChests, which is
// when the hooks run. A propagated patch failure is returned from here.
func (s *session) apply() (*il.Body, error) {
	if err := s.manager.LoadAll(); err != nil {
		return nil, err
	}
	body, err := s.runtime.Compile(terraria.QuickStackAllChests)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// close unloads every edit.
func (s *session) close() {
	s.manager.UnloadAll()
}

// loadConfig reads and validates the configuration viper holds.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger creates the logger for a command run. Without a log directory
// logs go to stderr.
func newLogger(cfg *config.Config, stderr io.Writer) (*logging.Logger, error) {
	if cfg.Logging.Dir != "" {
		return logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	}
	return logging.NewWriterLogger(stderr, cfg.Logging.Level), nil
}

// loadBody reads the body file at path. The file may name its method, in
// which case it must be the method the edits target.
func loadBody(path string) (*il.Body, error) {
	method, body, err := il.LoadBodyFile(path)
	if err != nil {
		return nil, err
	}
	if !method.IsZero() && method != terraria.QuickStackAllChests {
		return nil, fmt.Errorf("%s: body is for %s, edits target %s", path, method, terraria.QuickStackAllChests)
	}
	return body, nil
}
