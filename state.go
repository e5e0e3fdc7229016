package qf

/*
Result is everything one Parse call produces, in the order callers expect:
the final state, the state after each gate-class command, the commands that
were dispatched and the merged gate log.
*/
type Result struct {
	State          []complex128
	StateHistory   [][]complex128
	CommandHistory []rune
	Circuit        *Circuit

	// Code is the program that actually ran, after regex sampling.
	Code         string
	Pointer      int
	Seed         uint64
	Steps        int
	Skipped      int
	Measurements int
}

// Commands returns the command history as a string.
func (r *Result) Commands() string {
	return string(r.CommandHistory)
}

// Unpack returns the four artifacts of a run in their fixed order.
func (r *Result) Unpack() ([]complex128, [][]complex128, []rune, *Circuit) {
	return r.State, r.StateHistory, r.CommandHistory, r.Circuit
}

// Probabilities returns |a_i|^2 for every basis state of the final state.
func (r *Result) Probabilities() []float64 {
	out := make([]float64, len(r.State))
	for i, amp := range r.State {
		out[i] = real(amp)*real(amp) + imag(amp)*imag(amp)
	}
	return out
}
