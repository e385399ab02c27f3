package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/atomic"
	"golang.org/x/term"
)

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
)

var (
	// ErrNotTerminal is returned when the input is not an interactive terminal.
	ErrNotTerminal = errors.New("input is not a terminal")
	// ErrTerminalBusy is returned when raw mode is already held in this process.
	ErrTerminalBusy = errors.New("terminal raw mode is already held")
)

// rawOwned is set while some RawMode holds the terminal. Raw mode is a
// process-wide property of the tty, so only one holder may exist.
var rawOwned atomic.Bool

// RawMode switches a terminal into raw input mode and back.
// The zero value is not usable; create one with NewRawMode.
type RawMode struct {
	in  *os.File
	out io.Writer

	saved *term.State
}

// NewRawMode returns a RawMode for the terminal behind in. Cursor
// visibility sequences are written to out.
func NewRawMode(in *os.File, out io.Writer) *RawMode {
	return &RawMode{in: in, out: out}
}

// Acquire saves the current terminal settings and disables line buffering
// and echo.
func (r *RawMode) Acquire() error {
	fd := int(r.in.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	if r.saved != nil || !rawOwned.CompareAndSwap(false, true) {
		return ErrTerminalBusy
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		rawOwned.Store(false)
		return fmt.Errorf("enable raw mode: %w", err)
	}
	r.saved = saved

	// Cursor visibility is cosmetic; a failed write must not undo raw mode.
	if r.out != nil {
		_, _ = io.WriteString(r.out, hideCursor)
	}
	return nil
}

// Release restores the settings saved by Acquire. It is a no-op when the
// terminal is not held, so it is safe to call more than once.
func (r *RawMode) Release() error {
	if r.saved == nil {
		return nil
	}
	if r.out != nil {
		_, _ = io.WriteString(r.out, showCursor)
	}

	err := term.Restore(int(r.in.Fd()), r.saved)
	r.saved = nil
	rawOwned.Store(false)
	if err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	return nil
}

// Held reports whether this RawMode currently owns the terminal.
func (r *RawMode) Held() bool {
	return r.saved != nil
}
