package menu

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/moasq/gridmenu/internal/config"
	"github.com/moasq/gridmenu/internal/terminal"
)

const (
	clearScreen = "\033[2J\033[H"
	ellipsis    = "..."
	// Raw mode turns off output post-processing, so lines need an explicit CR.
	newline = "\r\n"
)

// Truncate shortens s to width columns, replacing the tail with "..." when
// it does not fit. The kept prefix is never shorter than zero columns.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	keep := width - len(ellipsis)
	if keep < 0 {
		keep = 0
	}
	return runewidth.Truncate(s, keep, "") + ellipsis
}

// Renderer draws the whole menu on every frame.
type Renderer struct {
	w   io.Writer
	cfg *config.Config
	hl  terminal.Highlighter
}

// NewRenderer returns a Renderer writing to w. hl may be nil, in which case
// the selected cell is marked with brackets.
func NewRenderer(w io.Writer, cfg *config.Config, hl terminal.Highlighter) *Renderer {
	return &Renderer{w: w, cfg: cfg, hl: hl}
}

// slotWidth is the label area of a cell, wide enough for a bare ellipsis.
func (r *Renderer) slotWidth() int {
	if r.cfg.CellWidth < len(ellipsis) {
		return len(ellipsis)
	}
	return r.cfg.CellWidth
}

func (r *Renderer) colored() bool {
	return r.hl != nil && (r.cfg.Foreground != nil || r.cfg.Background != nil)
}

// Frame returns the full redraw for s without writing it.
func (r *Renderer) Frame(s *State) string {
	g := Grid{N: len(s.Options), Cols: r.cfg.Columns}
	slot := r.slotWidth()
	cellWidth := slot + 2

	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(r.cfg.Prompt)
	b.WriteString(newline)

	sep := r.cfg.Separator
	if sep == "" {
		sep = strings.Repeat("-", g.Cols*cellWidth+(g.Cols-1))
	}
	b.WriteString(sep)
	b.WriteString(newline)

	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols; col++ {
			if col > 0 {
				b.WriteByte(' ')
			}
			i, ok := g.Index(row, col)
			if !ok {
				b.WriteString(strings.Repeat(" ", cellWidth))
				continue
			}
			r.writeCell(&b, s.Options[i], i == s.Selected, slot)
		}
		b.WriteString(newline)
	}
	return b.String()
}

func (r *Renderer) writeCell(b *strings.Builder, label string, selected bool, slot int) {
	text := runewidth.FillRight(Truncate(label, r.cfg.CellWidth), slot)
	switch {
	case !selected:
		b.WriteString(" " + text + " ")
	case r.colored():
		b.WriteByte(' ')
		if r.cfg.Foreground != nil {
			b.WriteString(r.hl.Foreground(*r.cfg.Foreground))
		}
		if r.cfg.Background != nil {
			b.WriteString(r.hl.Background(*r.cfg.Background))
		}
		b.WriteString(text)
		b.WriteString(r.hl.Reset())
		b.WriteByte(' ')
	default:
		b.WriteString(">" + text + "<")
	}
}

// Draw writes one frame for s.
func (r *Renderer) Draw(s *State) error {
	_, err := io.WriteString(r.w, r.Frame(s))
	return err
}

// Clear erases the menu from the screen.
func (r *Renderer) Clear() error {
	_, err := io.WriteString(r.w, clearScreen)
	return err
}
