package archive

import (
	"time"

	"github.com/theapemachine/qf"
)

// Amplitude is a complex amplitude as [real, imag].
type Amplitude [2]float64

type OpRecord struct {
	Kind    string `json:"kind"`
	Target  int    `json:"target"`
	Control int    `json:"control"`
}

// Record is the stored form of one run.
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Code      string `json:"code"`
	NumQubits int    `json:"qubits"`
	Seed      uint64 `json:"seed"`

	State        []Amplitude   `json:"state"`
	StateHistory [][]Amplitude `json:"state_history"`
	Commands     string        `json:"commands"`
	Ops          []OpRecord    `json:"ops"`

	Pointer      int `json:"pointer"`
	Steps        int `json:"steps"`
	Measurements int `json:"measurements"`
}

// FromResult captures a finished run.
func FromResult(cfg *qf.Config, res *qf.Result) *Record {
	rec := &Record{
		CreatedAt:    time.Now().UTC(),
		Code:         res.Code,
		NumQubits:    cfg.NumQubits,
		Seed:         res.Seed,
		State:        encodeVector(res.State),
		Commands:     res.Commands(),
		Pointer:      res.Pointer,
		Steps:        res.Steps,
		Measurements: res.Measurements,
	}

	for _, snap := range res.StateHistory {
		rec.StateHistory = append(rec.StateHistory, encodeVector(snap))
	}

	for _, op := range res.Circuit.Ops() {
		rec.Ops = append(rec.Ops, OpRecord{Kind: op.Kind.String(), Target: op.Target, Control: op.Control})
	}

	return rec
}

// Result rebuilds the run's artifacts.
func (rec *Record) Result() (*qf.Result, error) {
	circuit := qf.NewCircuit(rec.NumQubits)
	for _, o := range rec.Ops {
		kind, err := qf.ParseOpKind(o.Kind)
		if err != nil {
			return nil, err
		}
		circuit.Append(qf.Op{Kind: kind, Target: o.Target, Control: o.Control})
	}

	res := &qf.Result{
		State:          decodeVector(rec.State),
		CommandHistory: []rune(rec.Commands),
		Circuit:        circuit,
		Code:           rec.Code,
		Pointer:        rec.Pointer,
		Seed:           rec.Seed,
		Steps:          rec.Steps,
		Measurements:   rec.Measurements,
	}

	for _, snap := range rec.StateHistory {
		res.StateHistory = append(res.StateHistory, decodeVector(snap))
	}

	return res, nil
}

func encodeVector(v []complex128) []Amplitude {
	out := make([]Amplitude, len(v))
	for i, amp := range v {
		out[i] = Amplitude{real(amp), imag(amp)}
	}
	return out
}

func decodeVector(v []Amplitude) []complex128 {
	out := make([]complex128, len(v))
	for i, amp := range v {
		out[i] = complex(amp[0], amp[1])
	}
	return out
}
