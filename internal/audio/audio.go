// Package audio keeps media playing while the browser window is in the
// background.
package audio

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Backend switches the platform keep-alive on and off.
type Backend interface {
	Activate(ctx context.Context) error
	Deactivate(ctx context.Context) error
}

// Manager makes Start and Stop idempotent over a Backend. Backend failures
// are logged and never returned.
type Manager struct {
	backend Backend
	log     *zap.Logger

	mu     sync.Mutex
	active bool
}

// Params holds parameters for creating a Manager.
type Params struct {
	Backend Backend
	Logger  *zap.Logger // optional, no-op if nil
}

// NewManager creates an inactive Manager.
func NewManager(params Params) *Manager {
	log := params.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{backend: params.Backend, log: log.Named("audio")}
}

// Start activates the backend unless it is already active.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active || m.backend == nil {
		return
	}
	if err := m.backend.Activate(ctx); err != nil {
		m.log.Warn("activate background audio", zap.Error(err))
		return
	}
	m.active = true
	m.log.Debug("background audio active")
}

// Stop deactivates the backend if it is active.
func (m *Manager) Stop(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active {
		return
	}
	if err := m.backend.Deactivate(ctx); err != nil {
		m.log.Warn("deactivate background audio", zap.Error(err))
	}
	m.active = false
	m.log.Debug("background audio inactive")
}

// Active reports whether the keep-alive is on.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}
