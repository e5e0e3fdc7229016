package qf

import "fmt"

// run is the per-Parse interpreter state.
type run struct {
	vm   *VM
	prog []rune
	i    int
	h    int

	loops   []int
	buffer  *Circuit
	circuit *Circuit

	commands []rune
	history  [][]complex128

	steps        int
	skipped      int
	measurements int
}

func newRun(vm *VM, prog []rune) *run {
	return &run{
		vm:      vm,
		prog:    prog,
		buffer:  NewCircuit(vm.numQubits),
		circuit: NewCircuit(vm.numQubits),
	}
}

func (r *run) result() *Result {
	return &Result{
		State:          r.vm.backend.Amplitudes(),
		StateHistory:   r.history,
		CommandHistory: r.commands,
		Circuit:        r.circuit,
		Code:           string(r.prog),
		Pointer:        r.vm.pointer,
		Seed:           r.vm.seed,
		Steps:          r.steps,
		Skipped:        r.skipped,
		Measurements:   r.measurements,
	}
}

// step dispatches the command at r.i and leaves r.i at the next command to run.
func (r *run) step() error {
	vm := r.vm
	n := vm.numQubits
	cmd := r.prog[r.i]
	r.steps++

	vm.logger.Debugf("%d, %d: Command: %c, Pointer: %d", r.i, r.h, cmd, vm.pointer)

	gate := false

	switch cmd {
	case '>':
		vm.pointer = (vm.pointer + 1) % n
	case '<':
		vm.pointer = (vm.pointer - 1 + n) % n
	case '[':
		// A back-edge lands here with the loop already open.
		if len(r.loops) == 0 || r.loops[len(r.loops)-1] != r.i {
			r.loops = append(r.loops, r.i)
		}
	case ']':
		if len(r.loops) == 0 {
			vm.logger.Warn("Unmatched ']' found, skipping...")
			break
		}

		outcome, err := r.estimate()
		if err != nil {
			return err
		}

		if outcome == 1 {
			r.commands = append(r.commands, cmd)
			r.i = r.loops[len(r.loops)-1]
			return nil
		}
		r.loops = r.loops[:len(r.loops)-1]
	case ';':
		vm.backend.HaarReset()
	case ',':
		vm.backend.ZeroReset()
	case ':':
		if _, err := r.estimate(); err != nil {
			return err
		}
	case '+', 'H':
		r.buffer.Append(Single(OpHadamard, vm.pointer))
		gate = true
	case '~', 'T':
		r.buffer.Append(Single(OpPhaseT, vm.pointer))
		gate = true
	case '@', 'C':
		target, consumed, err := r.cnotTarget()
		if err != nil {
			return err
		}
		r.i += consumed
		r.buffer.Append(Controlled(OpCNOT, vm.pointer, target))
		gate = true
	case 'M', '#':
		r.buffer.Append(Single(OpMeasure, vm.pointer))
		gate = true
	case 'D', '%':
		r.buffer.Append(Single(OpDepolarize, vm.pointer))
		gate = true
	case '?':
		if vm.rng.IntN(2) == 0 {
			r.buffer.Append(Single(OpHadamard, vm.pointer))
		} else {
			r.buffer.Append(Single(OpPhaseT, vm.pointer))
		}
		gate = true
	case '!':
		vm.pointer = vm.rng.IntN(n)
	case '*':
		r.commands = append(r.commands, cmd)
		r.i = vm.rng.IntN(len(r.prog))
		return nil
	default:
		vm.logger.Debugf("Invalid command: %c, skipping...", cmd)
		r.skipped++
		r.i++
		return nil
	}

	r.commands = append(r.commands, cmd)

	if gate {
		if err := r.flush(); err != nil {
			return err
		}
	}

	r.i++
	return nil
}

/*
cnotTarget reads the decimal offset that directly follows a CNOT command and
returns the target qubit together with the number of digits consumed. Without
digits the offset is 1. An offset that wraps back onto the control qubit is
moved to the next qubit, which is only impossible on a one-qubit register.
*/
func (r *run) cnotTarget() (int, int, error) {
	n := r.vm.numQubits
	control := r.vm.pointer

	offset, consumed := 0, 0
	for j := r.i + 1; j < len(r.prog) && r.prog[j] >= '0' && r.prog[j] <= '9'; j++ {
		offset = (offset*10 + int(r.prog[j]-'0')) % n
		consumed++
	}

	if consumed == 0 {
		offset = 1
	}

	target := (control + offset) % n
	if target == control {
		target = (control + 1) % n
	}

	if target == control {
		return 0, 0, fmt.Errorf("%w: CNOT at %d on a %d-qubit register", ErrSelfTarget, r.i, n)
	}

	return target, consumed, nil
}

func (r *run) estimate() (int, error) {
	p0, outcome, err := r.vm.backend.Estimate(r.vm.pointer)
	if err != nil {
		return 0, fmt.Errorf("estimate qubit %d: %w", r.vm.pointer, err)
	}

	r.measurements++
	r.vm.logger.Debugf("Expected Value : %v", 2*p0-1)
	r.vm.logger.Debugf("Measured Result: %d", outcome)
	return outcome, nil
}

// flush applies the pending buffer, merges it into the full log and snapshots the state.
func (r *run) flush() error {
	for _, op := range r.buffer.Ops() {
		if err := r.vm.backend.Apply(op); err != nil {
			return fmt.Errorf("apply %s at %d: %w", op, r.i, err)
		}
	}

	r.circuit.Merge(r.buffer)
	r.buffer.Reset()
	r.history = append(r.history, r.vm.backend.Amplitudes())
	r.h++
	return nil
}
