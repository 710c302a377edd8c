package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
	"github.com/rocketscienceinc/tictactoe-core/internal/pkg"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
	Update(ctx context.Context, id string, fn func(session *entity.Session) error) (*entity.Session, error)
}

type botPlayer interface {
	ChooseMove(game *entity.Game) (int, error)
}

// SessionManager owns the games of every front end: it creates them, applies
// moves under the repository's exclusive update and answers for the bot.
type SessionManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	bot         botPlayer

	defaultFirstMover entity.Mark
	now               func() time.Time
	newID             func() (string, error)
}

func NewSessionManager(logger *slog.Logger, sessionRepo sessionRepo, bot botPlayer, defaultFirstMover entity.Mark) *SessionManager {
	return &SessionManager{
		logger:      logger.With("component", "session_manager"),
		sessionRepo: sessionRepo,
		bot:         bot,

		defaultFirstMover: defaultFirstMover,
		now:               func() time.Time { return time.Now().UTC() },
		newID:             pkg.GenerateSessionID,
	}
}

func (that *SessionManager) StartSession(ctx context.Context, opts entity.SessionOptions) (*entity.Session, error) {
	if opts.Mode == "" {
		opts.Mode = entity.ModeLocal
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session options: %w", err)
	}

	if opts.FirstMover == entity.NoMark {
		opts.FirstMover = that.defaultFirstMover
	}

	id, err := that.newID()
	if err != nil {
		return nil, err
	}

	session := entity.NewSession(id, opts, that.now())

	if session.IsBotTurn() {
		if err = that.playBot(session); err != nil {
			return nil, err
		}
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session started",
		"session", session.ID, "mode", session.Mode, "first_mover", session.Game.FirstMover())

	return session, nil
}

// MakeMove - plays cell for whoever's turn it is; in bot mode the bot answers
// within the same update.
func (that *SessionManager) MakeMove(ctx context.Context, id string, cell int) (*entity.Session, error) {
	log := that.logger.With("method", "MakeMove", "session", id)

	session, err := that.sessionRepo.Update(ctx, id, func(session *entity.Session) error {
		if session.IsBotTurn() {
			return apperror.ErrNotYourTurn
		}

		if err := session.Play(cell, that.now()); err != nil {
			return err
		}

		if session.IsBotTurn() {
			return that.playBot(session)
		}

		return nil
	})
	if err != nil {
		log.Debug("move rejected", "cell", cell, "error", err)
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	log.Debug("move applied", "cell", cell, "turn", session.Game.Turn())

	if outcome := session.Game.Outcome(); outcome.IsTerminal() {
		log.Info("game finished", "outcome", outcome.String(), "moves", len(session.Moves))
	}

	return session, nil
}

func (that *SessionManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

func (that *SessionManager) LegalMoves(ctx context.Context, id string) ([]int, error) {
	session, err := that.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	moves := slices.Collect(session.Game.LegalMoves())
	if moves == nil {
		moves = []int{}
	}

	return moves, nil
}

func (that *SessionManager) EndSession(ctx context.Context, id string) error {
	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	that.logger.Info("session ended", "session", id)

	return nil
}

func (that *SessionManager) playBot(session *entity.Session) error {
	cell, err := that.bot.ChooseMove(session.Game)
	if err != nil {
		return fmt.Errorf("bot failed to choose move: %w", err)
	}

	if err = session.Play(cell, that.now()); err != nil {
		return fmt.Errorf("bot failed to make move: %w", err)
	}

	return nil
}
