package qf

// DefaultNoiseRate is the depolarizing probability applied by a single D command.
const DefaultNoiseRate = 0.1

var paulis = [3]OpKind{OpPauliX, OpPauliY, OpPauliZ}

/*
depolarize follows one trajectory of the depolarizing channel on a pure state:
with probability noiseRate one of X, Y or Z is applied, chosen uniformly, and
otherwise the qubit is left alone.
*/
func (ds *DenseState) depolarize(qubit int) {
	if ds.rng.Float64() >= ds.noiseRate {
		return
	}

	switch paulis[ds.rng.IntN(len(paulis))] {
	case OpPauliX:
		applyPauliX(ds.Vector, qubit)
	case OpPauliY:
		applyPauliY(ds.Vector, qubit)
	case OpPauliZ:
		applyPhase(ds.Vector, qubit, -1)
	}
}
