// wavefunction.go
package qf

import (
	"math"
	"math/cmplx"
)

/*
probabilityOne sums |a_i|^2 over every basis state with bit q set. This is
(1 - ⟨Z_q⟩) / 2 for the single-qubit Z observable on q.
*/
func probabilityOne(vec []complex128, q int) float64 {
	bit := 1 << q

	var p float64
	for i, amp := range vec {
		if i&bit != 0 {
			p += real(amp)*real(amp) + imag(amp)*imag(amp)
		}
	}

	return math.Min(1, math.Max(0, p))
}

// ExpectationZ returns ⟨Z_q⟩ for the current state.
func (ds *DenseState) ExpectationZ(qubit int) (float64, error) {
	if err := ds.checkQubit(qubit); err != nil {
		return 0, err
	}
	return 1 - 2*probabilityOne(ds.Vector, qubit), nil
}

/*
Estimate samples a Z-basis outcome for qubit without collapsing the state.
Outcome 1 is drawn with probability (1 - ⟨Z⟩) / 2.
*/
func (ds *DenseState) Estimate(qubit int) (float64, int, error) {
	if err := ds.checkQubit(qubit); err != nil {
		return 0, 0, err
	}

	p1 := probabilityOne(ds.Vector, qubit)
	return 1 - p1, ds.sample(p1), nil
}

func (ds *DenseState) sample(p1 float64) int {
	if ds.rng.Float64() < p1 {
		return 1
	}
	return 0
}

/*
collapse performs a projective measurement of qubit: it samples an outcome,
zeroes every amplitude that disagrees with it and renormalizes what is left.
*/
func (ds *DenseState) collapse(qubit int) int {
	outcome := ds.sample(probabilityOne(ds.Vector, qubit))
	bit := 1 << qubit

	for i := range ds.Vector {
		if (i&bit != 0) != (outcome == 1) {
			ds.Vector[i] = 0
		}
	}

	normalize(ds.Vector)
	ds.sinceNormalize = 0
	return outcome
}

func norm(vec []complex128) float64 {
	var total float64
	for _, amp := range vec {
		total += real(amp)*real(amp) + imag(amp)*imag(amp)
	}
	return math.Sqrt(total)
}

// normalize rescales vec to unit norm. A zero vector is left untouched.
func normalize(vec []complex128) {
	n := norm(vec)
	if n == 0 {
		return
	}

	scale := complex(1/n, 0)
	for i := range vec {
		vec[i] *= scale
	}
}

// Fidelity returns |⟨a|b⟩|^2 for two equal-length states.
func Fidelity(a, b []complex128) float64 {
	if len(a) != len(b) {
		return 0
	}

	var inner complex128
	for i := range a {
		inner += cmplx.Conj(a[i]) * b[i]
	}

	abs := cmplx.Abs(inner)
	return abs * abs
}
