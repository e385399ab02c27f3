package menu

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/moasq/gridmenu/internal/config"
	"github.com/moasq/gridmenu/internal/terminal"
)

type fakeMode struct {
	acquired   int
	released   int
	acquireErr error
	releaseErr error
}

func (f *fakeMode) Acquire() error {
	if f.acquireErr != nil {
		return f.acquireErr
	}
	f.acquired++
	return nil
}

func (f *fakeMode) Release() error {
	f.released++
	return f.releaseErr
}

// keyEvent is one scripted Poll result; none means the poll timed out.
type keyEvent struct {
	key  terminal.Key
	none bool
}

type fakeKeys struct {
	events []keyEvent
	polls  int
	// onEmpty is returned once the script runs out.
	onEmpty error
}

func (f *fakeKeys) Poll(timeout time.Duration) (terminal.Key, bool, error) {
	f.polls++
	if len(f.events) == 0 {
		if f.onEmpty != nil {
			return terminal.KeyUnrecognized, false, f.onEmpty
		}
		return terminal.KeyUnrecognized, false, io.EOF
	}
	ev := f.events[0]
	f.events = f.events[1:]
	if ev.none {
		return terminal.KeyUnrecognized, false, nil
	}
	return ev.key, true, nil
}

func keys(ks ...terminal.Key) []keyEvent {
	out := make([]keyEvent, len(ks))
	for i, k := range ks {
		out[i] = keyEvent{key: k}
	}
	return out
}

func newTestMenu(cols int, mode *fakeMode, kb *fakeKeys) (*Menu, *bytes.Buffer, *bytes.Buffer) {
	cfg := config.Default()
	cfg.Columns = cols
	var diag, out bytes.Buffer
	return New(cfg, mode, kb, &diag, &out, nil), &diag, &out
}

func TestRunDownThenConfirm(t *testing.T) {
	mode := &fakeMode{}
	kb := &fakeKeys{events: keys(terminal.KeyDown, terminal.KeyConfirm)}
	m, _, out := newTestMenu(1, mode, kb)

	got, err := m.Run(context.Background(), []string{"Apple", "Banana"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "Banana" {
		t.Errorf("got %q, want Banana", got)
	}
	if out.String() != "Banana\n" {
		t.Errorf("stdout = %q, want %q", out.String(), "Banana\n")
	}
	if mode.acquired != 1 || mode.released != 1 {
		t.Errorf("acquired=%d released=%d, want 1/1", mode.acquired, mode.released)
	}
}

func TestRunRightJumpsColumn(t *testing.T) {
	kb := &fakeKeys{events: keys(terminal.KeyRight, terminal.KeyConfirm)}
	m, _, _ := newTestMenu(2, &fakeMode{}, kb)

	got, err := m.Run(context.Background(), []string{"a", "b", "c", "d", "e"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "d" {
		t.Fatalf("got %q, want d (index 3)", got)
	}
}

func TestRunEmptyOptionsTouchesNothing(t *testing.T) {
	mode := &fakeMode{}
	kb := &fakeKeys{}
	m, diag, out := newTestMenu(2, mode, kb)

	_, err := m.Run(context.Background(), nil)
	if !errors.Is(err, ErrNoOptions) {
		t.Fatalf("expected ErrNoOptions, got %v", err)
	}
	if mode.acquired != 0 || mode.released != 0 {
		t.Errorf("terminal mode was touched: acquired=%d released=%d", mode.acquired, mode.released)
	}
	if out.Len() != 0 || diag.Len() != 0 || kb.polls != 0 {
		t.Errorf("expected no output and no polling, got out=%q diag=%q polls=%d", out.String(), diag.String(), kb.polls)
	}
}

func TestRunIgnoresTimeoutsAndUnrecognized(t *testing.T) {
	kb := &fakeKeys{events: []keyEvent{
		{none: true},
		{key: terminal.KeyUnrecognized},
		{none: true},
		{key: terminal.KeyConfirm},
	}}
	m, diag, _ := newTestMenu(2, &fakeMode{}, kb)

	got, err := m.Run(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "first" {
		t.Fatalf("got %q, want first", got)
	}
	// One frame per loop iteration.
	if frames := strings.Count(diag.String(), "Select an option:"); frames != 4 {
		t.Errorf("drew %d frames, want 4", frames)
	}
}

func TestRunConfirmEmitsLabelVerbatim(t *testing.T) {
	long := "a label that is much longer than the cell"
	kb := &fakeKeys{events: keys(terminal.KeyConfirm)}
	m, _, out := newTestMenu(1, &fakeMode{}, kb)
	m.Config.CellWidth = 8

	if _, err := m.Run(context.Background(), []string{long}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != long+"\n" {
		t.Fatalf("stdout = %q", out.String())
	}
}

func TestRunDuplicatesResolvedByPosition(t *testing.T) {
	kb := &fakeKeys{events: keys(terminal.KeyUp, terminal.KeyConfirm)}
	m, _, _ := newTestMenu(1, &fakeMode{}, kb)

	got, err := m.Run(context.Background(), []string{"same", "other", "same"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "same" {
		t.Fatalf("got %q", got)
	}
}

func TestRunCancel(t *testing.T) {
	mode := &fakeMode{}
	kb := &fakeKeys{events: keys(terminal.KeyDown, terminal.KeyCancel)}
	m, _, out := newTestMenu(1, mode, kb)

	_, err := m.Run(context.Background(), []string{"a", "b"})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("cancel wrote %q to stdout", out.String())
	}
	if mode.released != 1 {
		t.Errorf("released=%d, want 1", mode.released)
	}
}

func TestRunReleasesOnReadError(t *testing.T) {
	mode := &fakeMode{}
	kb := &fakeKeys{onEmpty: io.ErrUnexpectedEOF}
	m, _, out := newTestMenu(1, mode, kb)

	_, err := m.Run(context.Background(), []string{"a"})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
	if mode.released != 1 {
		t.Errorf("released=%d, want 1", mode.released)
	}
	if out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", out.String())
	}
}

func TestRunReleasesOnContextCancel(t *testing.T) {
	mode := &fakeMode{}
	ctx, cancel := context.WithCancel(context.Background())
	kb := &cancellingKeys{cancel: cancel}
	m, _, _ := newTestMenu(1, mode, nil)
	m.Keys = kb

	_, err := m.Run(ctx, []string{"a"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mode.released != 1 {
		t.Errorf("released=%d, want 1", mode.released)
	}
}

type cancellingKeys struct {
	cancel context.CancelFunc
}

func (c *cancellingKeys) Poll(time.Duration) (terminal.Key, bool, error) {
	c.cancel()
	return terminal.KeyUnrecognized, false, nil
}

func TestRunReleasesOnPanic(t *testing.T) {
	mode := &fakeMode{}
	m, _, _ := newTestMenu(1, mode, nil)
	m.Keys = panickingKeys{}

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		m.Run(context.Background(), []string{"a"})
	}()
	if mode.released != 1 {
		t.Errorf("released=%d, want 1", mode.released)
	}
}

type panickingKeys struct{}

func (panickingKeys) Poll(time.Duration) (terminal.Key, bool, error) {
	panic("boom")
}

func TestRunAcquireFailure(t *testing.T) {
	mode := &fakeMode{acquireErr: terminal.ErrNotTerminal}
	kb := &fakeKeys{}
	m, _, _ := newTestMenu(1, mode, kb)

	_, err := m.Run(context.Background(), []string{"a"})
	if !errors.Is(err, terminal.ErrNotTerminal) {
		t.Fatalf("expected ErrNotTerminal, got %v", err)
	}
	if mode.released != 0 || kb.polls != 0 {
		t.Errorf("released=%d polls=%d, want 0/0", mode.released, kb.polls)
	}
}

func TestRunReleaseFailureIsOnlyAWarning(t *testing.T) {
	var warn bytes.Buffer
	prev := terminal.Diag
	terminal.Diag = &warn
	defer func() { terminal.Diag = prev }()

	mode := &fakeMode{releaseErr: errors.New("ioctl failed")}
	kb := &fakeKeys{events: keys(terminal.KeyConfirm)}
	m, _, out := newTestMenu(1, mode, kb)

	got, err := m.Run(context.Background(), []string{"a"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "a" || out.String() != "a\n" {
		t.Errorf("got %q, stdout %q", got, out.String())
	}
	if !strings.Contains(warn.String(), "ioctl failed") {
		t.Errorf("expected a warning, got %q", warn.String())
	}
}

// scriptedBytes feeds raw terminal bytes to a real Decoder.
type scriptedBytes struct {
	data []byte
}

func (s *scriptedBytes) ReadByte(time.Duration) (byte, bool, error) {
	if len(s.data) == 0 {
		return 0, false, io.EOF
	}
	b := s.data[0]
	s.data = s.data[1:]
	return b, true, nil
}

func TestRunUnknownEscapeSequenceDoesNotConfirm(t *testing.T) {
	for _, input := range []string{"\x1bx \x1b[B\r", "\x1bx\r\x1b[B\r"} {
		dec := terminal.NewDecoder(&scriptedBytes{data: []byte(input)})
		m, _, out := newTestMenu(1, &fakeMode{}, nil)
		m.Keys = dec

		got, err := m.Run(context.Background(), []string{"a", "b"})
		if err != nil {
			t.Fatalf("%q: Run: %v", input, err)
		}
		if got != "b" || out.String() != "b\n" {
			t.Fatalf("%q: got %q (stdout %q), want b", input, got, out.String())
		}
	}
}

func TestRunUsesMenuConfigForLayout(t *testing.T) {
	kb := &fakeKeys{events: keys(terminal.KeyRight, terminal.KeyConfirm)}
	m, _, _ := newTestMenu(1, &fakeMode{}, kb)
	layout := config.Default()
	layout.Columns = 2
	m.Config = layout

	got, err := m.Run(context.Background(), []string{"a", "b", "c", "d", "e"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "d" {
		t.Fatalf("got %q, want d (one column of 3 to the right)", got)
	}
}

// clearFailingWriter accepts frames but rejects the final screen clear.
type clearFailingWriter struct {
	frames bytes.Buffer
}

func (w *clearFailingWriter) Write(p []byte) (int, error) {
	if string(p) == clearScreen {
		return 0, errors.New("stderr closed")
	}
	return w.frames.Write(p)
}

func TestRunClearFailureIsOnlyAWarning(t *testing.T) {
	var warn bytes.Buffer
	prev := terminal.Diag
	terminal.Diag = &warn
	defer func() { terminal.Diag = prev }()

	mode := &fakeMode{}
	kb := &fakeKeys{events: keys(terminal.KeyConfirm)}
	var out bytes.Buffer
	m := New(config.Default(), mode, kb, &clearFailingWriter{}, &out, nil)

	got, err := m.Run(context.Background(), []string{"a"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "a" || out.String() != "a\n" {
		t.Errorf("got %q, stdout %q", got, out.String())
	}
	if mode.released != 1 {
		t.Errorf("released=%d, want 1", mode.released)
	}
	if !strings.Contains(warn.String(), "stderr closed") {
		t.Errorf("expected a warning, got %q", warn.String())
	}
}
