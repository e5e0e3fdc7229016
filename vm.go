package qf

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/errnie"
)

var ErrStepLimit = errors.New("step limit exceeded")

/*
VM interprets qf programs against a quantum register. The pointer and the
quantum state live as long as the VM; everything else is rebuilt by each
Parse call.

A VM is single-threaded. Run independent programs concurrently by giving each
its own VM, which is what Pool does.
*/
type VM struct {
	cfg       *Config
	numQubits int
	pointer   int
	seed      uint64

	backend Backend
	rng     *rand.Rand
	logger  *log.Logger
	sampler *Sampler
	metrics *Metrics

	init InitialState
}

// Option configures a VM, in the manner of a functional option.
type Option func(*VM)

// WithBackend swaps the dense reference backend for another implementation.
// The backend must have been built for the same number of qubits.
func WithBackend(backend Backend) Option {
	return func(vm *VM) {
		vm.backend = backend
	}
}

// WithRand supplies the random source shared by the VM and its default backend.
func WithRand(rng *rand.Rand) Option {
	return func(vm *VM) {
		vm.rng = rng
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(vm *VM) {
		vm.logger = logger
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(vm *VM) {
		vm.metrics = metrics
	}
}

// WithInitialVector loads explicit amplitudes instead of cfg.Init.
func WithInitialVector(v []complex128) Option {
	return func(vm *VM) {
		vm.init = VectorState(v)
	}
}

func NewVM(cfg *Config, opts ...Option) (*VM, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	vm := &VM{
		cfg:       cfg,
		numQubits: cfg.NumQubits,
		init:      BasisState(cfg.Init),
	}

	for _, opt := range opts {
		opt(vm)
	}

	vm.seed = cfg.Seed
	if vm.rng == nil {
		vm.seed = resolveSeed(cfg.Seed)
		vm.rng = NewRand(vm.seed)
	}

	if vm.logger == nil {
		vm.logger = NewTraceLogger(cfg.Debug)
	}

	if vm.backend == nil {
		ds := NewDenseState(cfg.NumQubits, vm.rng)
		ds.SetNoiseRate(cfg.NoiseRate)
		ds.SetRenormalizeEvery(cfg.RenormalizeEvery)
		vm.backend = ds
	}

	if got := vm.backend.NumQubits(); got != cfg.NumQubits {
		return nil, fmt.Errorf("%w: backend has %d qubits, config wants %d", ErrDimensionMismatch, got, cfg.NumQubits)
	}

	if err := vm.backend.Load(vm.init); err != nil {
		return nil, fmt.Errorf("load initial state %s: %w", vm.init, err)
	}

	vm.sampler = NewSampler(vm.rng, cfg.RegexRepeatLimit)

	errnie.Info("NewVM - qubits %v, init %v, regex %v", cfg.NumQubits, vm.init, cfg.Regex)
	return vm, nil
}

// NewRand returns a PCG source. A zero seed draws one from the runtime.
func NewRand(seed uint64) *rand.Rand {
	seed = resolveSeed(seed)
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// resolveSeed replaces a zero seed with a random non-zero one.
func resolveSeed(seed uint64) uint64 {
	for seed == 0 {
		seed = rand.Uint64()
	}
	return seed
}

func (vm *VM) Pointer() int {
	return vm.pointer
}

// Seed returns the seed behind the VM's random source. It is zero only when
// the source was supplied through WithRand without a configured seed.
func (vm *VM) Seed() uint64 {
	return vm.seed
}

func (vm *VM) NumQubits() int {
	return vm.numQubits
}

func (vm *VM) Backend() Backend {
	return vm.backend
}

// State returns a copy of the current amplitudes.
func (vm *VM) State() []complex128 {
	return vm.backend.Amplitudes()
}

/*
Parse runs code to completion and returns the run's artifacts. When the VM
is in regex mode, code is a pattern and one matching program is drawn first.

Backend failures abort the run. Hitting the step ceiling returns ErrStepLimit
together with everything produced up to that point.
*/
func (vm *VM) Parse(code string) (*Result, error) {
	if vm.cfg.Regex {
		sampled, err := vm.sampler.Sample(code)
		if err != nil {
			return nil, err
		}
		code = sampled
		vm.logger.Debugf("Code: %s", code)
	}

	run := newRun(vm, []rune(code))

	for run.i < len(run.prog) {
		if vm.cfg.MaxSteps > 0 && run.steps >= vm.cfg.MaxSteps {
			vm.logger.Warnf("Step limit %d reached at %d", vm.cfg.MaxSteps, run.i)
			return vm.finish(run), fmt.Errorf("%w: %d", ErrStepLimit, vm.cfg.MaxSteps)
		}

		if err := run.step(); err != nil {
			return vm.finish(run), err
		}
	}

	vm.logger.Debug("Quantum Circuit Execution Completed")
	return vm.finish(run), nil
}

func (vm *VM) finish(run *run) *Result {
	result := run.result()

	if vm.metrics != nil {
		vm.metrics.recordRun(result)
	}

	return result
}
