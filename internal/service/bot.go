package service

import (
	"errors"
	"math/rand"
	"slices"
	"sync"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

var ErrNoAvailableMoves = errors.New("no available moves")

type BotService interface {
	ChooseMove(game *entity.Game) (int, error)
}

type botService struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewBotService - the bot completes its own line when it can, blocks the
// opponent's line otherwise and falls back to a random empty cell.
func NewBotService(seed int64) BotService {
	return &botService{
		rnd: rand.New(rand.NewSource(seed)), //nolint: gosec // it's ok
	}
}

func (that *botService) ChooseMove(game *entity.Game) (int, error) {
	if game.Outcome().IsTerminal() {
		return 0, ErrNoAvailableMoves
	}

	availableCells := slices.Collect(game.LegalMoves())
	if len(availableCells) == 0 {
		return 0, ErrNoAvailableMoves
	}

	board := game.Board()
	botMark := game.Turn()

	if cell, ok := completingCell(board, availableCells, botMark); ok {
		return cell, nil
	}

	if cell, ok := completingCell(board, availableCells, botMark.Opponent()); ok {
		return cell, nil
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	return availableCells[that.rnd.Intn(len(availableCells))], nil
}

// completingCell - first empty cell that gives mark a full line.
func completingCell(board entity.Board, availableCells []int, mark entity.Mark) (int, bool) {
	for _, cell := range availableCells {
		for _, combo := range entity.WinCombos {
			if !slices.Contains(combo[:], cell) {
				continue
			}

			owned := 0
			for _, pos := range combo {
				if pos != cell && board[pos] == mark {
					owned++
				}
			}

			if owned == 2 {
				return cell, true
			}
		}
	}

	return 0, false
}
