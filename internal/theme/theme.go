package theme

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// Store persists the user's theme preference. The presentation layer owns
// the real storage; MemoryStore backs tests and headless deployments.
type Store interface {
	Load() (Mode, bool)
	Save(mode Mode)
}

// Service holds the current theme as an injected dependency with explicit
// init and update operations, rather than implicit shared state.
type Service struct {
	mu       sync.Mutex
	store    Store
	mode     Mode
	onChange func(Mode)
}

// NewService initializes from the stored preference when one exists,
// otherwise from the given system preference.
func NewService(store Store, systemDefault Mode) *Service {
	mode := systemDefault
	if stored, ok := store.Load(); ok {
		mode = stored
	}
	return &Service{store: store, mode: mode}
}

func (s *Service) OnChange(fn func(Mode)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *Service) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Toggle flips the mode, persists it and notifies the listener.
func (s *Service) Toggle() Mode {
	s.mu.Lock()
	if s.mode == ModeDark {
		s.mode = ModeLight
	} else {
		s.mode = ModeDark
	}
	mode := s.mode
	fn := s.onChange
	s.store.Save(mode)
	s.mu.Unlock()

	log.Debug().Str("mode", string(mode)).Msg("theme toggled")
	if fn != nil {
		fn(mode)
	}
	return mode
}

type MemoryStore struct {
	mu   sync.Mutex
	mode Mode
	set  bool
}

func (m *MemoryStore) Load() (Mode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode, m.set
}

func (m *MemoryStore) Save(mode Mode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
	m.set = true
}
