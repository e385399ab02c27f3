package menu

import "github.com/moasq/gridmenu/internal/terminal"

// Grid maps a list of N options onto Cols columns, filled column-major:
// the option at (row, col) has index row + col*Rows().
type Grid struct {
	N    int
	Cols int
}

// Rows returns ceil(N / Cols).
func (g Grid) Rows() int {
	if g.Cols < 1 {
		return g.N
	}
	return (g.N + g.Cols - 1) / g.Cols
}

// Index returns the option index at (row, col) and whether it exists.
func (g Grid) Index(row, col int) (int, bool) {
	i := row + col*g.Rows()
	return i, i >= 0 && i < g.N
}

// Next returns the index selected after key is pressed on selected.
// Up and Down wrap over the whole list; Left and Right jump one column
// (Rows() entries), also wrapping over the whole list.
func (g Grid) Next(selected int, key terminal.Key) int {
	if g.N < 1 {
		return 0
	}
	step := g.Rows() % g.N
	switch key {
	case terminal.KeyDown:
		return (selected + 1) % g.N
	case terminal.KeyUp:
		return (selected - 1 + g.N) % g.N
	case terminal.KeyRight:
		return (selected + step) % g.N
	case terminal.KeyLeft:
		return (selected - step + g.N) % g.N
	default:
		return selected
	}
}
