package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
)

// Game is the tic-tac-toe state machine: the board, the player to move and
// the mark that opened the game. The outcome is always derived from the board.
//
// A Game has a single owner and no internal locking. Create it with NewGame;
// the zero value is not a valid game.
type Game struct {
	board      Board
	turn       Mark
	firstMover Mark
}

// NewGame - creates an empty game where firstMover plays first.
// Anything other than X or O falls back to X.
func NewGame(firstMover Mark) *Game {
	if !firstMover.Valid() {
		firstMover = MarkX
	}

	return &Game{
		turn:       firstMover,
		firstMover: firstMover,
	}
}

// NewDefaultGame - creates an empty game opened by X.
func NewDefaultGame() *Game {
	return NewGame(MarkX)
}

// AttemptMove puts the current player's mark on pos. On error the game is
// left untouched.
func (that *Game) AttemptMove(pos int) error {
	if !inBounds(pos) {
		return fmt.Errorf("%w: cell %d", apperror.ErrOutOfBounds, pos)
	}

	if that.Outcome().IsTerminal() {
		return apperror.ErrGameOver
	}

	if that.board[pos] != NoMark {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, pos)
	}

	that.board[pos] = that.turn

	// the turn stays with the last mover once the game is over
	if that.board.outcome().IsInProgress() {
		that.turn = that.turn.Opponent()
	}

	return nil
}

// AttemptMoveAt - AttemptMove addressed by row and column.
func (that *Game) AttemptMoveAt(row, col int) error {
	pos, err := Position(row, col)
	if err != nil {
		return err
	}

	return that.AttemptMove(pos)
}

func (that *Game) Outcome() Outcome {
	return that.board.outcome()
}

// LegalMoves yields the empty cells in ascending order. Every range over the
// returned sequence reads the board afresh.
func (that *Game) LegalMoves() iter.Seq[int] {
	return func(yield func(int) bool) {
		for pos, cell := range that.board {
			if cell == NoMark && !yield(pos) {
				return
			}
		}
	}
}

func (that *Game) Turn() Mark {
	return that.turn
}

func (that *Game) FirstMover() Mark {
	return that.firstMover
}

// Board returns a copy of the cells.
func (that *Game) Board() Board {
	return that.board
}

func (that *Game) Cell(pos int) (Mark, error) {
	if !inBounds(pos) {
		return NoMark, fmt.Errorf("%w: cell %d", apperror.ErrOutOfBounds, pos)
	}

	return that.board[pos], nil
}

func (that *Game) Occupied() int {
	return that.board.Occupied()
}

type gameSnapshot struct {
	Board      Board    `json:"board"`
	Turn       Mark     `json:"turn"`
	FirstMover Mark     `json:"first_mover"`
	Outcome    *Outcome `json:"outcome,omitempty"`
}

func (that *Game) MarshalJSON() ([]byte, error) {
	outcome := that.Outcome()

	return json.Marshal(gameSnapshot{
		Board:      that.board,
		Turn:       that.turn,
		FirstMover: that.firstMover,
		Outcome:    &outcome,
	})
}

// UnmarshalJSON restores a game, rejecting boards that strict alternation
// from the first mover could not have produced. The outcome field is ignored.
func (that *Game) UnmarshalJSON(data []byte) error {
	var snapshot gameSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidSnapshot, err)
	}

	restored := Game{
		board:      snapshot.Board,
		turn:       snapshot.Turn,
		firstMover: snapshot.FirstMover,
	}

	if err := restored.validate(); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidSnapshot, err)
	}

	*that = restored

	return nil
}

var (
	errMarkCount     = errors.New("mark counts do not alternate")
	errTwoWinners    = errors.New("both players own a line")
	errTurnMismatch  = errors.New("turn does not match the board")
	errNoFirstMover  = errors.New("first mover is not set")
	errUnexpectedWin = errors.New("winner did not make the last move")
)

func (that *Game) validate() error {
	if !that.firstMover.Valid() {
		return errNoFirstMover
	}

	for pos, cell := range that.board {
		if cell != NoMark && !cell.Valid() {
			return fmt.Errorf("%w %q at cell %d", ErrUnknownMark, cell, pos)
		}
	}

	first, second := that.firstMover, that.firstMover.Opponent()
	firstCount, secondCount := that.board.count(first), that.board.count(second)
	if diff := firstCount - secondCount; diff != 0 && diff != 1 {
		return fmt.Errorf("%w: %s=%d %s=%d", errMarkCount, first, firstCount, second, secondCount)
	}

	lastMover := second
	if firstCount > secondCount {
		lastMover = first
	}

	if that.hasLine(first) && that.hasLine(second) {
		return errTwoWinners
	}

	if winner := that.board.winner(); winner != NoMark && winner != lastMover {
		return fmt.Errorf("%w: %s", errUnexpectedWin, winner)
	}

	expectedTurn := lastMover.Opponent()
	if that.board.outcome().IsTerminal() {
		expectedTurn = lastMover
	}

	if that.turn != expectedTurn {
		return fmt.Errorf("%w: got %q, want %q", errTurnMismatch, that.turn, expectedTurn)
	}

	return nil
}

func (that *Game) hasLine(m Mark) bool {
	for _, combo := range WinCombos {
		if that.board[combo[0]] == m && that.board[combo[1]] == m && that.board[combo[2]] == m {
			return true
		}
	}

	return false
}
