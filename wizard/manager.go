package wizard

import (
	"agrihire-backend/metrics"
	"agrihire-backend/utils/logger"
	"agrihire-backend/validation"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCapacity = 1024

// Key identifies one user's session of one wizard.
type Key struct {
	UserID string
	Entity validation.EntityType
}

// Manager keeps in-progress wizards so a user can leave a form and resume it
// later. The least recently used sessions are dropped once capacity is
// reached.
type Manager struct {
	validator *validation.Validator
	sessions  *lru.Cache[Key, *Wizard]
	logger    logger.Logger
}

func NewManager(v *validation.Validator, capacity int, log logger.Logger) (*Manager, error) {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	m := &Manager{validator: v, logger: log}
	sessions, err := lru.NewWithEvict(capacity, m.onEvict)
	if err != nil {
		return nil, err
	}
	m.sessions = sessions
	return m, nil
}

func (m *Manager) onEvict(key Key, _ *Wizard) {
	m.logger.Debugf("Dropped %s wizard session of user %s", key.Entity, key.UserID)
}

// Start opens a fresh session, replacing any unfinished one for the same key.
func (m *Manager) Start(key Key, seed any) (*Wizard, error) {
	w, err := New(m.validator, key.Entity, seed)
	if err != nil {
		return nil, err
	}
	m.sessions.Add(key, w)
	m.track()
	return w, nil
}

// Get returns the session for key, marking it recently used.
func (m *Manager) Get(key Key) (*Wizard, bool) {
	return m.sessions.Get(key)
}

func (m *Manager) Discard(key Key) {
	m.sessions.Remove(key)
	m.track()
}

func (m *Manager) Len() int {
	return m.sessions.Len()
}

func (m *Manager) track() {
	metrics.WizardSessions.Set(float64(m.sessions.Len()))
}
