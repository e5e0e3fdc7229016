package qf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

const (
	wire     = "─"
	crossing = "┼"
	dot      = "●"
	oplus    = "⊕"
)

// Drawer renders a gate log as a text circuit diagram.
type Drawer struct {
	gate    func(a ...interface{}) string
	control func(a ...interface{}) string
}

// NewDrawer returns a Drawer. With colored set, gate symbols are highlighted
// when the output supports it.
func NewDrawer(colored bool) *Drawer {
	if !colored {
		return &Drawer{gate: fmt.Sprint, control: fmt.Sprint}
	}

	return &Drawer{
		gate:    color.New(color.FgCyan, color.Bold).SprintFunc(),
		control: color.New(color.FgYellow).SprintFunc(),
	}
}

/*
Draw writes one row per qubit and one column per operation, in execution order:

	q0: ─H──●─────
	q1: ────⊕──T──
*/
func (d *Drawer) Draw(w io.Writer, c *Circuit) error {
	n := c.NumQubits()
	label := len(strconv.Itoa(n - 1))
	rows := make([]strings.Builder, n)

	for q := range rows {
		fmt.Fprintf(&rows[q], "q%-*d: ", label, q)
	}

	for _, op := range c.Ops() {
		lo, hi := op.Target, op.Target
		if op.Control >= 0 {
			lo, hi = min(op.Target, op.Control), max(op.Target, op.Control)
		}

		for q := range rows {
			sym := wire

			switch {
			case q == op.Control:
				sym = d.control(dot)
			case q == op.Target && op.Kind == OpCNOT:
				sym = d.gate(oplus)
			case q == op.Target:
				sym = d.gate(op.Kind.String())
			case op.Control >= 0 && q > lo && q < hi:
				sym = crossing
			}

			rows[q].WriteString(wire + sym + wire)
		}
	}

	for q := range rows {
		rows[q].WriteString(wire + "\n")
		if _, err := io.WriteString(w, rows[q].String()); err != nil {
			return err
		}
	}

	return nil
}

// String draws without colour.
func (c *Circuit) String() string {
	var sb strings.Builder
	_ = NewDrawer(false).Draw(&sb, c)
	return sb.String()
}

// WriteTable lists every operation of the log as a table.
func WriteTable(w io.Writer, c *Circuit) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Gate", "Target", "Control"})

	for i, op := range c.Ops() {
		control := "-"
		if op.Control >= 0 {
			control = strconv.Itoa(op.Control)
		}

		table.Append([]string{
			strconv.Itoa(i),
			op.Kind.String(),
			strconv.Itoa(op.Target),
			control,
		})
	}

	table.Render()
}
