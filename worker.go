package qf

import "fmt"

func (p *Pool) runTrial(trial Trial) TrialResult {
	cfg := *p.cfg
	cfg.Seed = trial.Seed

	vm, err := NewVM(&cfg, WithMetrics(p.metrics))
	if err != nil {
		return TrialResult{Trial: trial, Err: fmt.Errorf("trial %d: %w", trial.ID, err)}
	}

	result, err := vm.Parse(trial.Code)
	if err != nil {
		err = fmt.Errorf("trial %d: %w", trial.ID, err)
	}

	if result != nil && p.dropHistory {
		result.StateHistory = nil
	}

	return TrialResult{Trial: trial, Result: result, Err: err}
}

// Summary condenses a batch of trial results.
type Summary struct {
	Trials       int
	StepLimited  int
	Measurements int
	// Pointers counts how many trials finished with the pointer on each qubit.
	Pointers []int
	// Probabilities is the basis-state distribution averaged over trials.
	Probabilities []float64
}

func Summarize(numQubits int, results []TrialResult) Summary {
	sum := Summary{
		Pointers:      make([]int, numQubits),
		Probabilities: make([]float64, 1<<numQubits),
	}

	for _, tr := range results {
		if tr.Result == nil {
			continue
		}

		sum.Trials++
		if tr.Err != nil {
			sum.StepLimited++
		}

		sum.Measurements += tr.Result.Measurements
		sum.Pointers[tr.Result.Pointer]++

		for i, p := range tr.Result.Probabilities() {
			sum.Probabilities[i] += p
		}
	}

	if sum.Trials > 0 {
		for i := range sum.Probabilities {
			sum.Probabilities[i] /= float64(sum.Trials)
		}
	}

	return sum
}
