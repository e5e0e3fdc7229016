package qf

import (
	"errors"
	"fmt"
	"strconv"
)

// NormTolerance is how far a state's norm may drift from 1 before it is rejected.
const NormTolerance = 1e-9

var (
	ErrQubitRange        = errors.New("qubit index out of range")
	ErrSelfTarget        = errors.New("two-qubit gate targets its own control qubit")
	ErrDimensionMismatch = errors.New("state vector length does not match 2^n")
	ErrNotNormalized     = errors.New("state vector is not unit norm")
	ErrInvalidBasis      = errors.New("invalid basis string")
	ErrUnknownOp         = errors.New("unknown operation")
)

/*
Backend is the quantum state engine the interpreter drives. The interpreter
never touches amplitudes itself; every mutation goes through one of these calls.

A dense state vector (DenseState) is the reference implementation. Anything
faster can be dropped in through WithBackend without changing the VM.
*/
type Backend interface {
	// Apply mutates the state by a gate, a projective measurement or a noise channel.
	Apply(op Op) error
	// Estimate returns the probability of reading 0 on qubit and a sampled outcome.
	// It never changes the state.
	Estimate(qubit int) (p0 float64, outcome int, err error)
	HaarReset()
	ZeroReset()
	Load(init InitialState) error
	Amplitudes() []complex128
	NumQubits() int
}

// InitialState selects how a backend is seeded before the first command runs.
// The zero value is the all-zero basis state.
type InitialState struct {
	Basis  string
	Vector []complex128
}

// ZeroState is |0...0⟩.
func ZeroState() InitialState { return InitialState{} }

// BasisState is the basis vector whose index is the binary number in bits.
func BasisState(bits string) InitialState { return InitialState{Basis: bits} }

// VectorState loads the amplitudes verbatim.
func VectorState(v []complex128) InitialState { return InitialState{Vector: v} }

func (init InitialState) String() string {
	switch {
	case init.Vector != nil:
		return fmt.Sprintf("vector(%d)", len(init.Vector))
	case init.Basis != "":
		return "|" + init.Basis + "⟩"
	default:
		return "|0⟩"
	}
}

// basisIndex parses a binary string into an index below dim.
func basisIndex(bits string, dim int) (int, error) {
	idx, err := strconv.ParseUint(bits, 2, 63)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBasis, bits)
	}

	if idx >= uint64(dim) {
		return 0, fmt.Errorf("%w: %q exceeds %d basis states", ErrInvalidBasis, bits, dim)
	}

	return int(idx), nil
}
