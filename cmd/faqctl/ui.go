package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ui writes human or JSON output for a single command run.
type ui struct {
	out      io.Writer
	jsonMode bool
}

func newUI(out io.Writer, jsonMode, noColor bool) *ui {
	if noColor {
		color.NoColor = true
	}
	return &ui{out: out, jsonMode: jsonMode}
}

func (u *ui) Success(format string, args ...interface{}) {
	u.line(color.FgGreen, "✓", format, args...)
}

func (u *ui) Warning(format string, args ...interface{}) {
	u.line(color.FgYellow, "⚠", format, args...)
}

func (u *ui) Info(format string, args ...interface{}) {
	u.line(color.FgCyan, "ℹ", format, args...)
}

func (u *ui) Item(format string, args ...interface{}) {
	u.line(color.FgBlue, "  →", format, args...)
}

func (u *ui) line(attr color.Attribute, mark, format string, args ...interface{}) {
	if u.jsonMode {
		return
	}
	color.New(attr).Fprintf(u.out, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// JSON prints v when --json is set and reports whether it did.
func (u *ui) JSON(v interface{}) (bool, error) {
	if !u.jsonMode {
		return false, nil
	}
	enc := json.NewEncoder(u.out)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}
