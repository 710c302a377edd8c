package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

var errNoCell = errors.New(`either "cell" or both "row" and "col" are required`)

type sessionManager interface {
	StartSession(ctx context.Context, opts entity.SessionOptions) (*entity.Session, error)
	MakeMove(ctx context.Context, id string, cell int) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	LegalMoves(ctx context.Context, id string) ([]int, error)
	EndSession(ctx context.Context, id string) error
}

type Handlers struct {
	logger   *slog.Logger
	sessions sessionManager
}

func NewHandlers(logger *slog.Logger, sessions sessionManager) *Handlers {
	return &Handlers{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}
}

func (that *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Post("/", that.startGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", that.getGame)
			r.Delete("/", that.endGame)
			r.Post("/moves", that.makeMove)
			r.Get("/legal-moves", that.legalMoves)
		})
	})
}

type moveRequest struct {
	Cell *int `json:"cell"`
	Row  *int `json:"row"`
	Col  *int `json:"col"`
}

// position - resolves the flat cell index from either addressing form.
func (that moveRequest) position() (int, error) {
	switch {
	case that.Cell != nil:
		return *that.Cell, nil
	case that.Row != nil && that.Col != nil:
		return entity.Position(*that.Row, *that.Col)
	default:
		return 0, errNoCell
	}
}

type legalMovesResponse struct {
	Cells []int `json:"cells"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Handlers) startGame(w http.ResponseWriter, r *http.Request) {
	var opts entity.SessionOptions
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}

	session, err := that.sessions.StartSession(r.Context(), opts)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, session)
}

func (that *Handlers) getGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *Handlers) endGame(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.EndSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Handlers) makeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	cell, err := req.position()
	if err != nil {
		that.writeError(w, err)
		return
	}

	session, err := that.sessions.MakeMove(r.Context(), chi.URLParam(r, "id"), cell)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *Handlers) legalMoves(w http.ResponseWriter, r *http.Request) {
	cells, err := that.sessions.LegalMoves(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, legalMovesResponse{Cells: cells})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errNoCell),
		errors.Is(err, apperror.ErrOutOfBounds),
		errors.Is(err, entity.ErrUnknownMode),
		errors.Is(err, entity.ErrUnknownMark):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrGameOver),
		errors.Is(err, apperror.ErrNotYourTurn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *Handlers) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
