package qf

import (
	"fmt"
	"sync"
)

// OpKind identifies the operation a gate-class command queues.
type OpKind int

const (
	OpHadamard OpKind = iota
	OpPhaseT
	OpCNOT
	OpMeasure
	OpDepolarize
	OpPauliX
	OpPauliY
	OpPauliZ
)

var opNames = map[OpKind]string{
	OpHadamard:   "H",
	OpPhaseT:     "T",
	OpCNOT:       "CNOT",
	OpMeasure:    "M",
	OpDepolarize: "D",
	OpPauliX:     "X",
	OpPauliY:     "Y",
	OpPauliZ:     "Z",
}

func (k OpKind) String() string {
	if name, ok := opNames[k]; ok {
		return name
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// ParseOpKind is the inverse of OpKind.String.
func ParseOpKind(name string) (OpKind, error) {
	for kind, n := range opNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOp, name)
}

// Op is one entry of the gate log. Control is -1 for single-qubit operations.
type Op struct {
	Kind    OpKind
	Target  int
	Control int
}

func Single(kind OpKind, target int) Op {
	return Op{Kind: kind, Target: target, Control: -1}
}

func Controlled(kind OpKind, control, target int) Op {
	return Op{Kind: kind, Target: target, Control: control}
}

func (op Op) String() string {
	if op.Control >= 0 {
		return fmt.Sprintf("%s(%d->%d)", op.Kind, op.Control, op.Target)
	}
	return fmt.Sprintf("%s(%d)", op.Kind, op.Target)
}

/*
Circuit is an ordered, replayable log of operations on a fixed register.
The interpreter keeps two of them: a pending buffer that is flushed after
every gate-class command, and the merged history of everything flushed so far.
*/
type Circuit struct {
	mu        sync.RWMutex
	numQubits int
	ops       []Op
}

func NewCircuit(numQubits int) *Circuit {
	return &Circuit{numQubits: numQubits}
}

func (c *Circuit) NumQubits() int {
	return c.numQubits
}

func (c *Circuit) Append(op Op) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ops = append(c.ops, op)
}

// Merge appends every op of other, in order.
func (c *Circuit) Merge(other *Circuit) {
	ops := other.Ops()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.ops = append(c.ops, ops...)
}

// Ops returns a copy of the log.
func (c *Circuit) Ops() []Op {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Op, len(c.ops))
	copy(out, c.ops)
	return out
}

func (c *Circuit) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.ops)
}

func (c *Circuit) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ops = c.ops[:0]
}

/*
Replay applies the log, in order, to a backend. Measure and depolarize ops
draw fresh randomness from the backend, so only a log of unitary gates is
guaranteed to reproduce the state it was recorded from. Rerun the program
with the same seed to reproduce a run exactly.
*/
func (c *Circuit) Replay(backend Backend) error {
	for i, op := range c.Ops() {
		if err := backend.Apply(op); err != nil {
			return fmt.Errorf("replay op %d %s: %w", i, op, err)
		}
	}
	return nil
}
