package qf

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

/*
Pool runs many independent copies of a program in parallel. Every trial gets
its own VM and its own random source seeded from the base seed and the trial
number, so a pool run is reproducible regardless of scheduling.
*/
type Pool struct {
	cfg         *Config
	workers     int
	metrics     *Metrics
	dropHistory bool
}

func NewPool(cfg *Config, opts ...PoolOption) *Pool {
	if cfg == nil {
		cfg = NewConfig()
	}

	p := &Pool{
		cfg:     cfg,
		workers: runtime.GOMAXPROCS(0),
		metrics: NewMetrics(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.workers < 1 {
		p.workers = 1
	}

	return p
}

func (p *Pool) Metrics() *Metrics {
	return p.metrics
}

/*
Run executes code trials times and returns the results indexed by trial. A
trial that hits the step ceiling is reported in its TrialResult; any other
failure cancels the remaining trials and is returned.
*/
func (p *Pool) Run(ctx context.Context, code string, trials int) ([]TrialResult, error) {
	if trials < 0 {
		return nil, fmt.Errorf("%w: trials must not be negative, got %d", ErrInvalidConfig, trials)
	}

	results := make([]TrialResult, trials)
	base := resolveSeed(p.cfg.Seed)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i := range trials {
		if gctx.Err() != nil {
			break
		}

		trial := Trial{ID: i, Seed: trialSeed(base, i), Code: code}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res := p.runTrial(trial)
			if res.Err != nil && !errors.Is(res.Err, ErrStepLimit) {
				return res.Err
			}

			results[trial.ID] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, ctx.Err()
}

// trialSeed spreads consecutive trial numbers across the seed space.
func trialSeed(base uint64, i int) uint64 {
	seed := base + uint64(i+1)*0x9e3779b97f4a7c15
	if seed == 0 {
		seed = 1
	}
	return seed
}
