package qf

import (
	"fmt"
	"math/rand/v2"

	"github.com/theapemachine/errnie"
)

/*
DenseState holds the full 2^n amplitude vector of a register. Qubit k is bit k
of the basis index, so applying H to qubit 0 of |00⟩ spreads the amplitude over
indices 0 and 1.

A DenseState is owned by a single VM and is not safe for concurrent use.
*/
type DenseState struct {
	Vector    []complex128
	numQubits int
	rng       *rand.Rand

	noiseRate        float64
	renormalizeEvery int
	sinceNormalize   int
}

// NewDenseState returns a register of numQubits qubits in |0...0⟩.
func NewDenseState(numQubits int, rng *rand.Rand) *DenseState {
	errnie.Info("NewDenseState - qubits %v", numQubits)

	ds := &DenseState{
		Vector:           make([]complex128, 1<<numQubits),
		numQubits:        numQubits,
		rng:              rng,
		noiseRate:        DefaultNoiseRate,
		renormalizeEvery: DefaultRenormalizeEvery,
	}
	ds.Vector[0] = 1
	return ds
}

// SetNoiseRate sets the depolarizing probability used by OpDepolarize.
func (ds *DenseState) SetNoiseRate(rate float64) {
	ds.noiseRate = rate
}

// SetRenormalizeEvery sets how many gate applications may pass between
// renormalizations. Values below 1 renormalize after every gate.
func (ds *DenseState) SetRenormalizeEvery(n int) {
	ds.renormalizeEvery = n
}

func (ds *DenseState) NumQubits() int {
	return ds.numQubits
}

func (ds *DenseState) Amplitudes() []complex128 {
	out := make([]complex128, len(ds.Vector))
	copy(out, ds.Vector)
	return out
}

func (ds *DenseState) Apply(op Op) error {
	if err := ds.checkQubit(op.Target); err != nil {
		return err
	}

	switch op.Kind {
	case OpHadamard:
		applyHadamard(ds.Vector, op.Target)
	case OpPhaseT:
		applyPhase(ds.Vector, op.Target, tPhase)
	case OpPauliX:
		applyPauliX(ds.Vector, op.Target)
	case OpPauliY:
		applyPauliY(ds.Vector, op.Target)
	case OpPauliZ:
		applyPhase(ds.Vector, op.Target, -1)
	case OpCNOT:
		if err := ds.checkQubit(op.Control); err != nil {
			return err
		}
		if op.Control == op.Target {
			return fmt.Errorf("%w: qubit %d", ErrSelfTarget, op.Target)
		}
		applyCNOT(ds.Vector, op.Control, op.Target)
	case OpMeasure:
		ds.collapse(op.Target)
		return nil
	case OpDepolarize:
		ds.depolarize(op.Target)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownOp, op.Kind)
	}

	ds.sinceNormalize++
	if ds.sinceNormalize >= ds.renormalizeEvery {
		normalize(ds.Vector)
		ds.sinceNormalize = 0
	}

	return nil
}

func (ds *DenseState) ZeroReset() {
	clear(ds.Vector)
	ds.Vector[0] = 1
	ds.sinceNormalize = 0
}

// HaarReset draws a state uniformly from the unit sphere.
func (ds *DenseState) HaarReset() {
	for i := range ds.Vector {
		ds.Vector[i] = complex(ds.rng.NormFloat64(), ds.rng.NormFloat64())
	}
	normalize(ds.Vector)
	ds.sinceNormalize = 0
}

func (ds *DenseState) Load(init InitialState) error {
	dim := len(ds.Vector)

	switch {
	case init.Vector != nil:
		if len(init.Vector) != dim {
			return fmt.Errorf("%w: got %d amplitudes, want %d", ErrDimensionMismatch, len(init.Vector), dim)
		}
		if n := norm(init.Vector); n < 1-NormTolerance || n > 1+NormTolerance {
			return fmt.Errorf("%w: norm is %v", ErrNotNormalized, n)
		}
		copy(ds.Vector, init.Vector)
	case init.Basis != "":
		idx, err := basisIndex(init.Basis, dim)
		if err != nil {
			return err
		}
		clear(ds.Vector)
		ds.Vector[idx] = 1
	default:
		ds.ZeroReset()
	}

	ds.sinceNormalize = 0
	return nil
}

func (ds *DenseState) checkQubit(q int) error {
	if q < 0 || q >= ds.numQubits {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrQubitRange, q, ds.numQubits)
	}
	return nil
}
