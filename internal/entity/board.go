package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
)

// Mark is the symbol a player puts on the board.
type Mark string

const (
	MarkX  Mark = "X"
	MarkO  Mark = "O"
	NoMark Mark = ""
)

const (
	BoardSide = 3
	BoardSize = BoardSide * BoardSide
)

var (
	ErrUnknownMark = errors.New("unknown mark")
	ErrUnknownMode = errors.New("unknown game mode")
)

// WinCombos - every row, column and diagonal of the board.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Valid reports whether m is X or O.
func (m Mark) Valid() bool {
	return m == MarkX || m == MarkO
}

// Opponent returns the other player's mark.
func (m Mark) Opponent() Mark {
	if m == MarkX {
		return MarkO
	}
	return MarkX
}

// ParseMark - parses "x"/"o" in any case.
func ParseMark(s string) (Mark, error) {
	switch m := Mark(strings.ToUpper(strings.TrimSpace(s))); m {
	case MarkX, MarkO:
		return m, nil
	default:
		return NoMark, fmt.Errorf("%w: %q", ErrUnknownMark, s)
	}
}

// Board holds the cells in index order, row by row. NoMark is an empty cell.
type Board [BoardSize]Mark

// Position converts (row, col) into a flat cell index.
func Position(row, col int) (int, error) {
	if row < 0 || row >= BoardSide || col < 0 || col >= BoardSide {
		return 0, fmt.Errorf("%w: row %d, col %d", apperror.ErrOutOfBounds, row, col)
	}

	return row*BoardSide + col, nil
}

// RowCol is the inverse of Position.
func RowCol(pos int) (int, int) {
	return pos / BoardSide, pos % BoardSide
}

func inBounds(pos int) bool {
	return pos >= 0 && pos < BoardSize
}

// Occupied returns the number of cells holding a mark.
func (b Board) Occupied() int {
	n := 0
	for _, cell := range b {
		if cell != NoMark {
			n++
		}
	}

	return n
}

func (b Board) count(m Mark) int {
	n := 0
	for _, cell := range b {
		if cell == m {
			n++
		}
	}

	return n
}

// winner returns the mark owning a complete line, or NoMark.
func (b Board) winner() Mark {
	for _, combo := range WinCombos {
		a := b[combo[0]]
		if a != NoMark && a == b[combo[1]] && a == b[combo[2]] {
			return a
		}
	}

	return NoMark
}

func (b Board) outcome() Outcome {
	if w := b.winner(); w != NoMark {
		return Won(w)
	}

	if b.Occupied() == BoardSize {
		return Draw()
	}

	return InProgress()
}

// String renders the board as three lines, "." standing for an empty cell.
func (b Board) String() string {
	var sb strings.Builder

	for row := range BoardSide {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := range BoardSide {
			if col > 0 {
				sb.WriteByte(' ')
			}
			cell := b[row*BoardSide+col]
			if cell == NoMark {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(string(cell))
		}
	}

	return sb.String()
}
