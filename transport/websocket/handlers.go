package websocket

import (
	"context"
	"errors"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

var (
	ErrNoSession = errors.New("no session: send game:new or a session_id")
	ErrNoCell    = errors.New("cell is required")
)

// resolve - the id from the request, or the one this connection last used.
func (that *connState) resolve(req RequestPayload) (string, error) {
	if req.SessionID != "" {
		that.sessionID = req.SessionID
	}

	if that.sessionID == "" {
		return "", ErrNoSession
	}

	return that.sessionID, nil
}

func (that *Server) handleNewGame(ctx context.Context, state *connState, req RequestPayload) (ResponsePayload, error) {
	var opts entity.SessionOptions
	if req.Options != nil {
		opts = *req.Options
	}

	session, err := that.sessions.StartSession(ctx, opts)
	if err != nil {
		return ResponsePayload{}, err
	}

	state.sessionID = session.ID

	return that.withLegalMoves(session), nil
}

func (that *Server) handleState(ctx context.Context, state *connState, req RequestPayload) (ResponsePayload, error) {
	id, err := state.resolve(req)
	if err != nil {
		return ResponsePayload{}, err
	}

	session, err := that.sessions.GetSession(ctx, id)
	if err != nil {
		return ResponsePayload{}, err
	}

	return that.withLegalMoves(session), nil
}

func (that *Server) handleTurn(ctx context.Context, state *connState, req RequestPayload) (ResponsePayload, error) {
	id, err := state.resolve(req)
	if err != nil {
		return ResponsePayload{}, err
	}

	if req.Cell == nil {
		return ResponsePayload{}, ErrNoCell
	}

	session, err := that.sessions.MakeMove(ctx, id, *req.Cell)
	if err != nil {
		return ResponsePayload{}, err
	}

	return that.withLegalMoves(session), nil
}

func (that *Server) handleLeave(ctx context.Context, state *connState, req RequestPayload) (ResponsePayload, error) {
	id, err := state.resolve(req)
	if err != nil {
		return ResponsePayload{}, err
	}

	if err = that.sessions.EndSession(ctx, id); err != nil {
		return ResponsePayload{}, err
	}

	state.sessionID = ""

	return ResponsePayload{}, nil
}

func (that *Server) withLegalMoves(session *entity.Session) ResponsePayload {
	var moves []int
	for cell := range session.Game.LegalMoves() {
		moves = append(moves, cell)
	}

	return ResponsePayload{
		Session:    session,
		LegalMoves: moves,
	}
}
