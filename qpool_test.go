package qf

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPool(t *testing.T) {
	Convey("Given a pool of trials", t, func(c C) {
		cfg := NewConfig()
		cfg.NumQubits = 2
		cfg.Seed = 1234
		cfg.MaxSteps = 500

		pool := NewPool(cfg, WithWorkers(4))

		Convey("When running the same program many times", func(c C) {
			results, err := pool.Run(context.Background(), "+[>]", 200)
			c.So(err, ShouldBeNil)
			c.So(results, ShouldHaveLength, 200)

			for i, tr := range results {
				c.So(tr.ID, ShouldEqual, i)
				c.So(tr.Err, ShouldBeNil)
				c.So(tr.Result.StateHistory, ShouldHaveLength, 1)
			}

			Convey("The summary averages the final distributions", func(c C) {
				sum := Summarize(cfg.NumQubits, results)
				c.So(sum.Trials, ShouldEqual, 200)
				c.So(sum.Probabilities[0], ShouldAlmostEqual, 0.5, 1e-9)
				c.So(sum.Probabilities[1], ShouldAlmostEqual, 0.5, 1e-9)
				c.So(sum.Pointers[1], ShouldEqual, 200)
			})

			Convey("The shared metrics counted every run", func(c C) {
				m := pool.Metrics().ExportMetrics()
				c.So(m["runs"], ShouldEqual, int64(200))
				c.So(m["snapshots"], ShouldEqual, int64(200))
			})
		})

		Convey("When the seed is fixed the run is reproducible", func(c C) {
			a, err := pool.Run(context.Background(), "?!?!?!", 20)
			c.So(err, ShouldBeNil)

			b, err := NewPool(cfg, WithWorkers(1)).Run(context.Background(), "?!?!?!", 20)
			c.So(err, ShouldBeNil)

			for i := range a {
				c.So(a[i].Seed, ShouldEqual, b[i].Seed)
				c.So(a[i].Result.State, ShouldResemble, b[i].Result.State)
				c.So(a[i].Result.Pointer, ShouldEqual, b[i].Result.Pointer)
			}
		})

		Convey("When a trial runs into the step limit", func(c C) {
			results, err := pool.Run(context.Background(), "*", 5)
			c.So(err, ShouldBeNil)

			for _, tr := range results {
				c.So(errors.Is(tr.Err, ErrStepLimit), ShouldBeTrue)
				c.So(tr.Result.Steps, ShouldEqual, 500)
			}

			c.So(Summarize(cfg.NumQubits, results).StepLimited, ShouldEqual, 5)
		})

		Convey("When a trial fails outright the run fails", func(c C) {
			one := NewConfig()
			one.NumQubits = 1
			one.Seed = 2

			_, err := NewPool(one).Run(context.Background(), "@", 10)
			c.So(errors.Is(err, ErrSelfTarget), ShouldBeTrue)
		})

		Convey("When the context is already cancelled nothing runs", func(c C) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := pool.Run(ctx, "+", 10)
			c.So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("When history is dropped snapshots are not kept", func(c C) {
			results, err := NewPool(cfg, WithoutHistory()).Run(context.Background(), "++", 3)
			c.So(err, ShouldBeNil)
			c.So(results[0].Result.StateHistory, ShouldBeNil)
		})
	})
}

func TestPoolNegativeTrials(t *testing.T) {
	Convey("Given a negative trial count", t, func() {
		pool := NewPool(NewConfig())

		results, err := pool.Run(context.Background(), "+", -1)

		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		So(results, ShouldBeNil)
	})
}
