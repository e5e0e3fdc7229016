package qf

// Trial is one independent execution scheduled on a Pool.
type Trial struct {
	ID   int
	Seed uint64
	Code string
}

// TrialResult pairs a trial with what its run produced. Err is set for runs
// that stopped early, such as ErrStepLimit; Result then holds the partial run.
type TrialResult struct {
	Trial
	Result *Result
	Err    error
}

// PoolOption is a function type for configuring pools
type PoolOption func(*Pool)

// WithWorkers bounds how many trials run at once.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		p.workers = n
	}
}

// WithPoolMetrics shares a Metrics across every VM the pool builds.
func WithPoolMetrics(m *Metrics) PoolOption {
	return func(p *Pool) {
		p.metrics = m
	}
}

// WithoutHistory drops state snapshots from trial results to save memory.
func WithoutHistory() PoolOption {
	return func(p *Pool) {
		p.dropHistory = true
	}
}
