package entity

import (
	"fmt"
	"time"
)

const (
	// ModeLocal - both marks are played from the same front end.
	ModeLocal = "local"
	// ModeBot - the service answers every human move itself.
	ModeBot = "bot"
)

// Session is a game owned by the service, addressed by ID.
type Session struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	HumanMark Mark      `json:"human_mark,omitempty"`
	Game      *Game     `json:"game"`
	Moves     []int     `json:"moves"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SessionOptions struct {
	Mode       string `json:"mode"`
	FirstMover Mark   `json:"first_mover"`
	HumanMark  Mark   `json:"human_mark"`
}

func NewSession(id string, opts SessionOptions, now time.Time) *Session {
	session := &Session{
		ID:        id,
		Mode:      opts.Mode,
		Game:      NewGame(opts.FirstMover),
		Moves:     []int{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if session.IsWithBot() {
		session.HumanMark = opts.HumanMark
		if !session.HumanMark.Valid() {
			session.HumanMark = session.Game.FirstMover()
		}
	}

	return session
}

// Validate - checks options coming from a client.
func (that SessionOptions) Validate() error {
	switch that.Mode {
	case ModeLocal, ModeBot:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, that.Mode)
	}

	if that.FirstMover != NoMark && !that.FirstMover.Valid() {
		return fmt.Errorf("%w: first mover %q", ErrUnknownMark, that.FirstMover)
	}

	if that.HumanMark != NoMark && !that.HumanMark.Valid() {
		return fmt.Errorf("%w: human mark %q", ErrUnknownMark, that.HumanMark)
	}

	return nil
}

// Play - applies a move and appends it to the move log.
func (that *Session) Play(pos int, now time.Time) error {
	if err := that.Game.AttemptMove(pos); err != nil {
		return err
	}

	that.Moves = append(that.Moves, pos)
	that.UpdatedAt = now

	return nil
}

func (that *Session) IsWithBot() bool {
	return that.Mode == ModeBot
}

func (that *Session) BotMark() Mark {
	return that.HumanMark.Opponent()
}

// IsBotTurn - true when the bot owns the next move of an unfinished game.
func (that *Session) IsBotTurn() bool {
	return that.IsWithBot() && that.Game.Outcome().IsInProgress() && that.Game.Turn() == that.BotMark()
}
