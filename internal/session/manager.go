package session

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/nexushealth/nexus/internal/facade"
	"github.com/nexushealth/nexus/internal/platform/events"
)

// Manager hands out one provider per active patient. There is no
// module-level default patient; callers always name one.
type Manager struct {
	f      *facade.Facade
	bus    *events.Bus
	logger zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Provider
}

func NewManager(f *facade.Facade, bus *events.Bus, logger zerolog.Logger) *Manager {
	return &Manager{
		f:        f,
		bus:      bus,
		logger:   logger,
		sessions: make(map[string]*Provider),
	}
}

// Get returns the provider for the patient, creating it on first use.
func (m *Manager) Get(patientID string) *Provider {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.sessions[patientID]; ok {
		return p
	}
	p := NewProvider(patientID, m.f, m.bus, m.logger)
	m.sessions[patientID] = p
	return p
}

// Close tears down every active session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.sessions {
		p.Close()
		delete(m.sessions, id)
	}
}
