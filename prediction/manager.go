package prediction

import (
	"github.com/prestontjones/GravitySim/parameter"
	"github.com/prestontjones/GravitySim/physics"
)

// WorldSource is the live side the manager clones from
type WorldSource interface {
	Len() int
	CloneWorld() physics.World
}

// Manager is the producer side: throttles clones into the worker
// Must be driven from the simulation goroutine
type Manager struct {
	worker   *Worker
	interval float64
	elapsed  float64
}

// NewManager wraps a started or unstarted worker
func NewManager(worker *Worker) *Manager {
	return &Manager{
		worker:   worker,
		interval: parameter.PredictionFeedInterval,
	}
}

// Update offers a fresh clone at most once per feed interval
// Returns true when a clone was handed off
func (m *Manager) Update(dt float64, src WorldSource) bool {
	if !m.worker.Enabled() {
		return false
	}
	if src.Len() == 0 {
		m.worker.Clear()
		return false
	}

	m.elapsed += dt
	if m.elapsed < m.interval {
		return false
	}
	m.elapsed = 0

	m.worker.Offer(src.CloneWorld())
	return true
}

func (m *Manager) SetPredictionsEnabled(enabled bool) {
	m.worker.SetEnabled(enabled)
	m.elapsed = m.interval
}

func (m *Manager) PredictionsEnabled() bool { return m.worker.Enabled() }

func (m *Manager) Predictions() Paths { return m.worker.Predictions() }

func (m *Manager) SetPredictionQuality(q Quality) { m.worker.SetQuality(q) }

func (m *Manager) PredictionQuality() Quality { return m.worker.Quality() }

// Close stops the worker, waiting up to the join timeout
func (m *Manager) Close() error {
	return m.worker.Stop(parameter.PredictionJoinTimeout)
}
