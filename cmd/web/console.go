package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// console prints the operator-facing progress narrative. Structured logs go
// to stderr through slog; this is the human summary on stdout.
type console struct {
	w    io.Writer
	bold *color.Color
	ok   *color.Color
	warn *color.Color
	fail *color.Color
	dim  *color.Color
}

func newConsole(w io.Writer, noColor bool) *console {
	c := &console{
		w:    w,
		bold: color.New(color.Bold),
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed, color.Bold),
		dim:  color.New(color.Faint),
	}
	if noColor {
		for _, col := range []*color.Color{c.bold, c.ok, c.warn, c.fail, c.dim} {
			col.DisableColor()
		}
	}
	return c
}

func (c *console) Step(n int, title string) {
	_, _ = fmt.Fprintln(c.w)
	_, _ = c.bold.Fprintf(c.w, "--- Step %d: %s ---\n", n, title)
}

func (c *console) Success(format string, args ...any) {
	_, _ = c.ok.Fprint(c.w, "  + ")
	_, _ = fmt.Fprintf(c.w, format+"\n", args...)
}

func (c *console) Warn(format string, args ...any) {
	_, _ = c.warn.Fprint(c.w, "  ! ")
	_, _ = fmt.Fprintf(c.w, format+"\n", args...)
}

func (c *console) Fail(format string, args ...any) {
	_, _ = fmt.Fprintln(c.w)
	_, _ = c.fail.Fprintf(c.w, "[ERROR] "+format+"\n", args...)
}

func (c *console) Note(format string, args ...any) {
	_, _ = c.dim.Fprintf(c.w, format+"\n", args...)
}

func (c *console) Banner(title string) {
	_, _ = fmt.Fprintln(c.w)
	_, _ = c.bold.Fprintf(c.w, "--- %s ---\n", title)
}
