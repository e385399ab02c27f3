// Package menu implements the interactive grid chooser: layout, rendering
// and the key-driven event loop.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/moasq/gridmenu/internal/config"
	"github.com/moasq/gridmenu/internal/terminal"
)

var (
	// ErrNoOptions is returned when Run is given nothing to choose from.
	ErrNoOptions = errors.New("no options to choose from")
	// ErrCancelled is returned when the user cancels the menu.
	ErrCancelled = errors.New("selection cancelled")
)

// ModeManager owns the terminal input mode for the duration of a session.
type ModeManager interface {
	Acquire() error
	Release() error
}

// KeySource waits a bounded time for the next key.
type KeySource interface {
	Poll(timeout time.Duration) (terminal.Key, bool, error)
}

// Menu runs one selection session.
type Menu struct {
	Config   *config.Config
	Mode     ModeManager
	Keys     KeySource
	Renderer *Renderer
	// Out receives the chosen label followed by a newline.
	Out io.Writer

	// PollTimeout is the longest the loop waits before redrawing.
	PollTimeout time.Duration
}

// New assembles a Menu from its collaborators.
func New(cfg *config.Config, mode ModeManager, keys KeySource, diag, out io.Writer, hl terminal.Highlighter) *Menu {
	return &Menu{
		Config:      cfg,
		Mode:        mode,
		Keys:        keys,
		Renderer:    NewRenderer(diag, cfg, hl),
		Out:         out,
		PollTimeout: terminal.DefaultPollTimeout,
	}
}

// Run shows options until one is confirmed and returns it. The terminal is
// only touched once options is known to be non-empty, and it is always
// restored before Run returns, whatever the outcome.
func (m *Menu) Run(ctx context.Context, options []string) (string, error) {
	if len(options) == 0 {
		return "", ErrNoOptions
	}

	if err := m.Mode.Acquire(); err != nil {
		return "", fmt.Errorf("failed to prepare terminal: %w", err)
	}
	state, err := m.session(ctx, options)
	if err != nil {
		return "", err
	}

	choice, ok := state.Choice()
	if !ok {
		return "", ErrCancelled
	}
	if m.Out != nil {
		if _, err := fmt.Fprintln(m.Out, choice); err != nil {
			return "", fmt.Errorf("failed to write selection: %w", err)
		}
	}
	return choice, nil
}

// session runs the event loop while the terminal is held and releases it
// on every way out, panics included.
func (m *Menu) session(ctx context.Context, options []string) (*State, error) {
	defer func() {
		if err := m.Renderer.Clear(); err != nil {
			terminal.Warning(fmt.Sprintf("could not clear menu: %v", err))
		}
		if err := m.Mode.Release(); err != nil {
			terminal.Warning(fmt.Sprintf("could not restore terminal: %v", err))
		}
	}()

	state := NewState(options)
	grid := Grid{N: len(options), Cols: m.Config.Columns}
	timeout := m.PollTimeout
	if timeout <= 0 {
		timeout = terminal.DefaultPollTimeout
	}

	for !state.Closed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := m.Renderer.Draw(state); err != nil {
			return nil, fmt.Errorf("failed to draw menu: %w", err)
		}

		key, ok, err := m.Keys.Poll(timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
		if !ok {
			continue
		}
		state.Apply(key, grid)
	}
	return state, nil
}
