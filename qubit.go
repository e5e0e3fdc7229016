package qf

import (
	"math"
	"math/cmplx"
)

var tPhase = cmplx.Exp(complex(0, math.Pi/4))

// applyHadamard works on amplitude pairs that differ only in bit q.
func applyHadamard(vec []complex128, q int) {
	// H = 1/√2 * [1  1]
	//           [1 -1]
	h := complex(1/math.Sqrt2, 0)
	bit := 1 << q

	for i := range vec {
		if i&bit != 0 {
			continue
		}

		j := i | bit
		alpha, beta := vec[i], vec[j]
		vec[i] = h * (alpha + beta)
		vec[j] = h * (alpha - beta)
	}
}

// applyPhase multiplies every amplitude with bit q set by factor.
func applyPhase(vec []complex128, q int, factor complex128) {
	bit := 1 << q

	for i := range vec {
		if i&bit != 0 {
			vec[i] *= factor
		}
	}
}

func applyPauliX(vec []complex128, q int) {
	bit := 1 << q

	for i := range vec {
		if i&bit == 0 {
			j := i | bit
			vec[i], vec[j] = vec[j], vec[i]
		}
	}
}

func applyPauliY(vec []complex128, q int) {
	bit := 1 << q

	for i := range vec {
		if i&bit == 0 {
			j := i | bit
			vec[i], vec[j] = -1i*vec[j], 1i*vec[i]
		}
	}
}

// applyCNOT flips the target bit on every basis state whose control bit is set.
func applyCNOT(vec []complex128, control, target int) {
	cbit, tbit := 1<<control, 1<<target

	for i := range vec {
		if i&cbit != 0 && i&tbit == 0 {
			j := i | tbit
			vec[i], vec[j] = vec[j], vec[i]
		}
	}
}
