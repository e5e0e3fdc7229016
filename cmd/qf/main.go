package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/theapemachine/qf"
	"github.com/theapemachine/qf/archive"
	"github.com/urfave/cli/v2"
)

var configFlags = []cli.Flag{
	&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
	&cli.IntFlag{Name: "qubits", Aliases: []string{"n"}, Usage: "register size"},
	&cli.StringFlag{Name: "init", Usage: "initial basis state as a binary string"},
	&cli.Uint64Flag{Name: "seed", Usage: "random seed, 0 picks one"},
	&cli.BoolFlag{Name: "regex", Usage: "treat the program as a pattern and run one match"},
	&cli.BoolFlag{Name: "debug", Usage: "trace every dispatched command"},
	&cli.IntFlag{Name: "max-steps", Usage: "stop after this many steps, 0 is unbounded"},
	&cli.Float64Flag{Name: "noise", Usage: "depolarizing probability of the D command"},
}

func main() {
	app := &cli.App{
		Name:  "qf",
		Usage: "run programs for the measurement-driven quantum esolang",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a program once",
				ArgsUsage: "PROGRAM",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "draw", Usage: "draw the executed circuit"},
					&cli.BoolFlag{Name: "table", Usage: "list the executed operations"},
					&cli.BoolFlag{Name: "color", Usage: "colour the circuit diagram"},
					&cli.BoolFlag{Name: "dump", Usage: "dump the full result"},
					&cli.StringFlag{Name: "archive", Usage: "store the run in this archive directory"},
				}, configFlags...),
				Action: runCmd,
			},
			{
				Name:      "trials",
				Usage:     "run a program many times in parallel and summarize",
				ArgsUsage: "PROGRAM",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "trials", Aliases: []string{"t"}, Value: 100},
					&cli.IntFlag{Name: "workers", Aliases: []string{"w"}},
				}, configFlags...),
				Action: trialsCmd,
			},
			{
				Name:      "show",
				Usage:     "list archived runs or redraw one",
				ArgsUsage: "[ID]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "archive", Required: true},
					&cli.BoolFlag{Name: "color"},
				},
				Action: showCmd,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "qf:", err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*qf.Config, error) {
	cfg := qf.NewConfig()

	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = qf.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if c.IsSet("qubits") {
		cfg.NumQubits = c.Int("qubits")
	}
	if c.IsSet("init") {
		cfg.Init = c.String("init")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Uint64("seed")
	}
	if c.IsSet("regex") {
		cfg.Regex = c.Bool("regex")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("max-steps") {
		cfg.MaxSteps = c.Int("max-steps")
	}
	if c.IsSet("noise") {
		cfg.NoiseRate = c.Float64("noise")
	}

	return cfg, cfg.Validate()
}

func program(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one PROGRAM argument, got %d", c.NArg())
	}
	return c.Args().First(), nil
}

func runCmd(c *cli.Context) error {
	code, err := program(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	vm, err := qf.NewVM(cfg)
	if err != nil {
		return err
	}

	result, runErr := vm.Parse(code)
	if result == nil {
		return runErr
	}

	out := c.App.Writer
	printResult(out, result)

	if c.Bool("table") {
		qf.WriteTable(out, result.Circuit)
	}
	if c.Bool("draw") {
		if err := qf.NewDrawer(c.Bool("color")).Draw(out, result.Circuit); err != nil {
			return err
		}
	}
	if c.Bool("dump") {
		spew.Fdump(out, result)
	}

	if dir := c.String("archive"); dir != "" {
		store, err := archive.Open(dir)
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Put(archive.FromResult(cfg, result))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "archived: %s\n", id)
	}

	return runErr
}

func printResult(w io.Writer, result *qf.Result) {
	fmt.Fprintf(w, "program:   %s\n", result.Code)
	fmt.Fprintf(w, "commands:  %s\n", result.Commands())
	fmt.Fprintf(w, "pointer:   %d\n", result.Pointer)
	fmt.Fprintf(w, "snapshots: %d\n", len(result.StateHistory))

	width := 0
	for n := len(result.State) - 1; n > 0; n >>= 1 {
		width++
	}

	for i, p := range result.Probabilities() {
		if p < 1e-12 {
			continue
		}
		fmt.Fprintf(w, "  |%0*b⟩  %9.6f  p=%.6f\n", max(width, 1), i, result.State[i], p)
	}
}

func trialsCmd(c *cli.Context) error {
	code, err := program(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	opts := []qf.PoolOption{qf.WithoutHistory()}
	if c.IsSet("workers") {
		opts = append(opts, qf.WithWorkers(c.Int("workers")))
	}

	pool := qf.NewPool(cfg, opts...)
	results, err := pool.Run(c.Context, code, c.Int("trials"))
	if err != nil {
		return err
	}

	out := c.App.Writer
	sum := qf.Summarize(cfg.NumQubits, results)
	fmt.Fprintf(out, "trials: %d (step limited: %d), measurements: %d\n", sum.Trials, sum.StepLimited, sum.Measurements)

	for q, count := range sum.Pointers {
		fmt.Fprintf(out, "  pointer q%d: %d\n", q, count)
	}

	for i, p := range sum.Probabilities {
		if p < 1e-12 {
			continue
		}
		fmt.Fprintf(out, "  |%0*b⟩  %.6f\n", cfg.NumQubits, i, p)
	}

	metrics := pool.Metrics().ExportMetrics()
	keys := make([]string, 0, len(metrics))
	for k := range metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fmt.Fprintf(out, "  %s=%v\n", k, metrics[k])
	}

	return nil
}

func showCmd(c *cli.Context) error {
	store, err := archive.Open(c.String("archive"))
	if err != nil {
		return err
	}
	defer store.Close()

	out := c.App.Writer

	if c.NArg() == 0 {
		ids, err := store.List()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, strings.Join(ids, "\n"))
		return nil
	}

	rec, err := store.Get(c.Args().First())
	if err != nil {
		return err
	}

	result, err := rec.Result()
	if err != nil {
		return err
	}

	printResult(out, result)
	return qf.NewDrawer(c.Bool("color")).Draw(out, result.Circuit)
}
