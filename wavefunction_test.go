package qf

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEstimate(t *testing.T) {
	Convey("Given a qubit in superposition", t, func() {
		ds := NewDenseState(2, NewRand(5))
		So(ds.Apply(Single(OpHadamard, 1)), ShouldBeNil)
		before := ds.Amplitudes()

		Convey("Estimating never collapses the state", func() {
			for range 100 {
				p0, outcome, err := ds.Estimate(1)
				So(err, ShouldBeNil)
				So(p0, ShouldAlmostEqual, 0.5, 1e-12)
				So(outcome, ShouldBeIn, 0, 1)
			}
			So(ds.Vector, ShouldResemble, before)
		})

		Convey("The expectation of Z matches the probabilities", func() {
			z, err := ds.ExpectationZ(1)
			So(err, ShouldBeNil)
			So(z, ShouldAlmostEqual, 0, 1e-12)

			z, err = ds.ExpectationZ(0)
			So(err, ShouldBeNil)
			So(z, ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("Sampled outcomes follow (1 - <Z>) / 2", func() {
			ones := 0
			for range 10000 {
				_, outcome, _ := ds.Estimate(1)
				ones += outcome
			}
			So(float64(ones)/10000, ShouldAlmostEqual, 0.5, 0.03)
		})
	})

	Convey("Given two states", t, func() {
		a := []complex128{1, 0}
		b := []complex128{complex(1/math.Sqrt2, 0), complex(0, 1/math.Sqrt2)}

		So(Fidelity(a, a), ShouldAlmostEqual, 1, 1e-12)
		So(Fidelity(a, b), ShouldAlmostEqual, 0.5, 1e-12)
		So(Fidelity(a, []complex128{1}), ShouldEqual, 0)
	})
}
