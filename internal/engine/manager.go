package engine

import (
	"context"

	"github.com/rs/zerolog"
)

// Manager holds the configured engines and performs a single failover pass:
// preferred (or default) provider first, then the remaining engines in
// registration order. Registration order is fixed at construction, so
// fallback behavior is a deliberate, testable contract rather than map
// iteration luck. The engine set is immutable after construction and safe
// for concurrent readers.
type Manager struct {
	engines         []Engine
	byName          map[string]Engine
	defaultProvider string
	logger          zerolog.Logger
}

func NewManager(defaultProvider string, logger zerolog.Logger, engines ...Engine) *Manager {
	m := &Manager{
		engines:         engines,
		byName:          make(map[string]Engine, len(engines)),
		defaultProvider: defaultProvider,
		logger:          logger,
	}
	for _, e := range engines {
		m.byName[e.Name()] = e
	}
	return m
}

// GenerateResponse resolves the target provider, probes availability
// immediately before use, and falls back through the other engines once.
// The check-then-use gap is an accepted limitation.
func (m *Manager) GenerateResponse(ctx context.Context, prompt string, provider string, p Params) (Result, error) {
	target := provider
	if target == "" {
		target = m.defaultProvider
	}

	if e, ok := m.byName[target]; ok {
		if e.Available(ctx) {
			res, err := e.Generate(ctx, prompt, p)
			if err == nil {
				return res, nil
			}
			m.logger.Warn().Err(err).Str("provider", target).Msg("primary provider failed")
		} else {
			m.logger.Warn().Str("provider", target).Msg("primary provider unavailable")
		}
	}

	for _, e := range m.engines {
		if e.Name() == target {
			continue
		}
		if !e.Available(ctx) {
			continue
		}
		m.logger.Info().Str("provider", e.Name()).Msg("using fallback provider")
		res, err := e.Generate(ctx, prompt, p)
		if err == nil {
			return res, nil
		}
		m.logger.Warn().Err(err).Str("provider", e.Name()).Msg("fallback provider failed")
	}

	return Result{}, ErrAllProvidersUnavailable
}

// Providers returns the configured provider names in registration order.
func (m *Manager) Providers() []string {
	out := make([]string, 0, len(m.engines))
	for _, e := range m.engines {
		out = append(out, e.Name())
	}
	return out
}

// Status probes every engine; used by health endpoints.
func (m *Manager) Status(ctx context.Context) map[string]bool {
	status := make(map[string]bool, len(m.engines))
	for _, e := range m.engines {
		status[e.Name()] = e.Available(ctx)
	}
	return status
}
