// Package monitor tracks backend reachability and performs failover across a
// static ordered list of endpoints. There is no discovery service; the list
// comes straight from configuration.
package monitor

import (
	"context"
	"sync"

	"github.com/example/storefront/pkg/api"
	"github.com/example/storefront/pkg/config"
	"go.uber.org/zap"
)

// State is the client-perceived connection state for the active endpoint.
type State string

const (
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
)

// Monitor probes the active endpoint and fails over to the first reachable
// fallback. It does not re-probe on its own once disconnected; a later
// explicit probe or reload attempts the active endpoint again.
type Monitor struct {
	client    *api.Client
	endpoints []string
	logger    *zap.Logger

	mu    sync.RWMutex
	state State
}

func New(client *api.Client, cfg *config.BackendConfig, logger *zap.Logger) *Monitor {
	return &Monitor{
		client:    client,
		endpoints: cfg.Endpoints(),
		logger:    logger,
		state:     StateConnecting,
	}
}

// State returns the current connection state.
func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// ActiveEndpoint returns the endpoint subsequent API calls will target.
func (m *Monitor) ActiveEndpoint() string {
	return m.client.BaseURL()
}

// Probe checks the active endpoint and, on failure, walks the remaining
// endpoints in order. The first success swaps the active endpoint and
// reports true. False means every endpoint failed.
func (m *Monitor) Probe(ctx context.Context) bool {
	m.setState(StateConnecting)

	active := m.client.BaseURL()
	err := m.client.ProbeEndpoint(ctx, active)
	if err == nil {
		m.logger.Info("Backend reachable", zap.String("endpoint", active))
		m.setState(StateConnected)
		return true
	}
	m.logger.Warn("Active endpoint unreachable",
		zap.String("endpoint", active),
		zap.Error(err))

	for _, endpoint := range m.endpoints {
		if endpoint == active {
			continue
		}
		if err := m.client.ProbeEndpoint(ctx, endpoint); err != nil {
			m.logger.Warn("Fallback endpoint unreachable",
				zap.String("endpoint", endpoint),
				zap.Error(err))
			continue
		}
		m.client.SetBaseURL(endpoint)
		m.logger.Info("Switched to fallback endpoint", zap.String("endpoint", endpoint))
		m.setState(StateConnected)
		return true
	}

	m.logger.Error("All backend endpoints unreachable")
	m.setState(StateDisconnected)
	return false
}

func (m *Monitor) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}
