package qf

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCircuit(t *testing.T) {
	Convey("Given a pending buffer and a full log", t, func() {
		buffer := NewCircuit(3)
		full := NewCircuit(3)

		buffer.Append(Single(OpHadamard, 0))
		buffer.Append(Controlled(OpCNOT, 0, 2))

		So(buffer.Len(), ShouldEqual, 2)

		Convey("Merging then resetting moves the ops into the log", func() {
			full.Merge(buffer)
			buffer.Reset()

			So(buffer.Len(), ShouldEqual, 0)
			So(full.Ops(), ShouldResemble, []Op{
				{Kind: OpHadamard, Target: 0, Control: -1},
				{Kind: OpCNOT, Target: 2, Control: 0},
			})

			Convey("Later merges append in order", func() {
				buffer.Append(Single(OpPhaseT, 1))
				full.Merge(buffer)
				So(full.Len(), ShouldEqual, 3)
				So(full.Ops()[2].Kind, ShouldEqual, OpPhaseT)
			})
		})

		Convey("Ops returns a copy", func() {
			ops := buffer.Ops()
			ops[0].Target = 2
			So(buffer.Ops()[0].Target, ShouldEqual, 0)
		})

		Convey("Replaying the log reproduces the state", func() {
			ds := NewDenseState(3, NewRand(1))
			So(buffer.Replay(ds), ShouldBeNil)
			So(real(ds.Vector[0]), ShouldAlmostEqual, real(ds.Vector[5]), 1e-12)
			So(real(ds.Vector[5]), ShouldBeGreaterThan, 0.7)
		})

		Convey("Op kinds round-trip through their names", func() {
			for kind := range opNames {
				parsed, err := ParseOpKind(kind.String())
				So(err, ShouldBeNil)
				So(parsed, ShouldEqual, kind)
			}

			_, err := ParseOpKind("SWAP")
			So(err, ShouldNotBeNil)
		})

		Convey("Ops print their operands", func() {
			So(Single(OpMeasure, 1).String(), ShouldEqual, "M(1)")
			So(Controlled(OpCNOT, 0, 2).String(), ShouldEqual, "CNOT(0->2)")
		})
	})
}

func TestCircuitReplayRun(t *testing.T) {
	Convey("Given the gate log of a unitary run", t, func() {
		cfg := NewConfig()
		cfg.NumQubits = 2
		cfg.Seed = 3

		vm, err := NewVM(cfg)
		So(err, ShouldBeNil)

		result, err := vm.Parse("+@>~+")
		So(err, ShouldBeNil)

		Convey("Replaying it from |00> lands on the final state", func() {
			ds := NewDenseState(2, NewRand(99))
			So(result.Circuit.Replay(ds), ShouldBeNil)

			for i, amp := range result.State {
				So(real(ds.Vector[i]), ShouldAlmostEqual, real(amp), 1e-12)
				So(imag(ds.Vector[i]), ShouldAlmostEqual, imag(amp), 1e-12)
			}
		})
	})
}
