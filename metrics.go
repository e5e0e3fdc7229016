package qf

import (
	"sort"
	"sync"
)

// Metrics aggregates run statistics. One Metrics can be shared by every VM in a Pool.
type Metrics struct {
	mu           sync.RWMutex
	Runs         int64
	Steps        int64
	Dispatches   int64
	Skipped      int64
	Measurements int64
	Snapshots    int64
	Gates        int64

	AverageSteps float64
	P95Steps     int
	MaxSteps     int

	stepWindow []int
	windowSize int
}

func NewMetrics() *Metrics {
	return &Metrics{
		stepWindow: make([]int, 0, 1000), // last 1000 runs
		windowSize: 1000,
	}
}

func (m *Metrics) recordRun(result *Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Runs++
	m.Steps += int64(result.Steps)
	m.Dispatches += int64(len(result.CommandHistory))
	m.Skipped += int64(result.Skipped)
	m.Measurements += int64(result.Measurements)
	m.Snapshots += int64(len(result.StateHistory))
	m.Gates += int64(result.Circuit.Len())

	if result.Steps > m.MaxSteps {
		m.MaxSteps = result.Steps
	}

	m.updateStepPercentiles(result.Steps)
}

func (m *Metrics) updateStepPercentiles(steps int) {
	m.AverageSteps = float64(m.Steps) / float64(m.Runs)

	m.stepWindow = append(m.stepWindow, steps)
	if len(m.stepWindow) > m.windowSize {
		m.stepWindow = m.stepWindow[1:]
	}

	sorted := make([]int, len(m.stepWindow))
	copy(sorted, m.stepWindow)
	sort.Ints(sorted)

	p95Index := int(float64(len(sorted)) * 0.95)
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}
	m.P95Steps = sorted[p95Index]
}

func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"runs":          m.Runs,
		"steps":         m.Steps,
		"dispatches":    m.Dispatches,
		"skipped":       m.Skipped,
		"measurements":  m.Measurements,
		"snapshots":     m.Snapshots,
		"gates":         m.Gates,
		"average_steps": m.AverageSteps,
		"p95_steps":     m.P95Steps,
		"max_steps":     m.MaxSteps,
	}
}
