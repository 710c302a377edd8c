package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

var errRedisDown = errors.New("redis down")

type mockSessionManager struct {
	mock.Mock
}

func (m *mockSessionManager) StartSession(ctx context.Context, opts entity.SessionOptions) (*entity.Session, error) {
	args := m.Called(ctx, opts)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (m *mockSessionManager) MakeMove(ctx context.Context, id string, cell int) (*entity.Session, error) {
	args := m.Called(ctx, id, cell)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (m *mockSessionManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	args := m.Called(ctx, id)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (m *mockSessionManager) LegalMoves(ctx context.Context, id string) ([]int, error) {
	args := m.Called(ctx, id)
	cells, _ := args.Get(0).([]int)
	return cells, args.Error(1)
}

func (m *mockSessionManager) EndSession(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestServer(t *testing.T, sessions *mockSessionManager) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	server := httptest.NewServer(NewRouter(logger, sessions))
	t.Cleanup(server.Close)

	return server
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}

	return resp, decoded
}

func sessionWithMoves(t *testing.T, cells ...int) *entity.Session {
	t.Helper()

	session := entity.NewSession("s1", entity.SessionOptions{Mode: entity.ModeLocal}, time.Now().UTC())
	for _, cell := range cells {
		require.NoError(t, session.Play(cell, time.Now().UTC()))
	}

	return session
}

func TestPing(t *testing.T) {
	server := newTestServer(t, &mockSessionManager{})

	resp, err := http.Get(server.URL + "/ping") //nolint: noctx // test
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestHandlers_StartGame(t *testing.T) {
	t.Run("Creates a game from options", func(t *testing.T) {
		// Given: a manager that starts the session
		sessions := &mockSessionManager{}
		opts := entity.SessionOptions{Mode: entity.ModeBot, HumanMark: entity.MarkO}
		sessions.On("StartSession", mock.Anything, opts).Return(sessionWithMoves(t), nil).Once()
		server := newTestServer(t, sessions)

		// When: POST /games is called
		resp, body := do(t, http.MethodPost, server.URL+"/games", `{"mode":"bot","human_mark":"O"}`)

		// Then: the new session is returned
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "s1", body["id"])
		game, ok := body["game"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "X", game["turn"])
		sessions.AssertExpectations(t)
	})

	t.Run("Empty body uses defaults", func(t *testing.T) {
		sessions := &mockSessionManager{}
		sessions.On("StartSession", mock.Anything, entity.SessionOptions{}).Return(sessionWithMoves(t), nil).Once()
		server := newTestServer(t, sessions)

		resp, _ := do(t, http.MethodPost, server.URL+"/games", "")

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("Unknown mode is a bad request", func(t *testing.T) {
		sessions := &mockSessionManager{}
		sessions.On("StartSession", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("invalid session options: %w", entity.ErrUnknownMode)).Once()
		server := newTestServer(t, sessions)

		resp, body := do(t, http.MethodPost, server.URL+"/games", `{"mode":"online"}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body["error"], "unknown game mode")
	})
}

func TestHandlers_MakeMove(t *testing.T) {
	t.Run("Move by cell", func(t *testing.T) {
		// Given: X already played the center
		sessions := &mockSessionManager{}
		sessions.On("MakeMove", mock.Anything, "s1", 4).Return(sessionWithMoves(t, 4), nil).Once()
		server := newTestServer(t, sessions)

		// When: the move is posted
		resp, body := do(t, http.MethodPost, server.URL+"/games/s1/moves", `{"cell":4}`)

		// Then: the updated game is returned
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		game, ok := body["game"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "O", game["turn"])
	})

	t.Run("Move by row and column", func(t *testing.T) {
		sessions := &mockSessionManager{}
		sessions.On("MakeMove", mock.Anything, "s1", 7).Return(sessionWithMoves(t, 7), nil).Once()
		server := newTestServer(t, sessions)

		resp, _ := do(t, http.MethodPost, server.URL+"/games/s1/moves", `{"row":2,"col":1}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		sessions.AssertExpectations(t)
	})

	t.Run("Row outside the board", func(t *testing.T) {
		server := newTestServer(t, &mockSessionManager{})

		resp, _ := do(t, http.MethodPost, server.URL+"/games/s1/moves", `{"row":3,"col":0}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing cell", func(t *testing.T) {
		server := newTestServer(t, &mockSessionManager{})

		resp, _ := do(t, http.MethodPost, server.URL+"/games/s1/moves", `{}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Malformed body", func(t *testing.T) {
		server := newTestServer(t, &mockSessionManager{})

		resp, _ := do(t, http.MethodPost, server.URL+"/games/s1/moves", `{"cell":`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
	}{
		{"out of bounds", apperror.ErrOutOfBounds, http.StatusBadRequest},
		{"occupied", apperror.ErrCellOccupied, http.StatusConflict},
		{"game over", apperror.ErrGameOver, http.StatusConflict},
		{"not your turn", apperror.ErrNotYourTurn, http.StatusConflict},
		{"unknown session", apperror.ErrSessionNotFound, http.StatusNotFound},
		{"storage", errRedisDown, http.StatusInternalServerError},
	}

	for _, tc := range errorCases {
		t.Run("Maps "+tc.name, func(t *testing.T) {
			sessions := &mockSessionManager{}
			sessions.On("MakeMove", mock.Anything, "s1", 0).
				Return(nil, fmt.Errorf("failed to make move: %w", tc.err)).Once()
			server := newTestServer(t, sessions)

			resp, body := do(t, http.MethodPost, server.URL+"/games/s1/moves", `{"cell":0}`)

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandlers_GetGame(t *testing.T) {
	t.Run("Existing game", func(t *testing.T) {
		sessions := &mockSessionManager{}
		sessions.On("GetSession", mock.Anything, "s1").Return(sessionWithMoves(t, 0, 3, 1, 4, 2), nil).Once()
		server := newTestServer(t, sessions)

		resp, body := do(t, http.MethodGet, server.URL+"/games/s1", "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		game, ok := body["game"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"status": "won", "winner": "X"}, game["outcome"])
	})

	t.Run("Unknown game", func(t *testing.T) {
		sessions := &mockSessionManager{}
		sessions.On("GetSession", mock.Anything, "nope").Return(nil, apperror.ErrSessionNotFound).Once()
		server := newTestServer(t, sessions)

		resp, _ := do(t, http.MethodGet, server.URL+"/games/nope", "")

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestHandlers_LegalMoves(t *testing.T) {
	sessions := &mockSessionManager{}
	sessions.On("LegalMoves", mock.Anything, "s1").Return([]int{1, 2, 3}, nil).Once()
	server := newTestServer(t, sessions)

	resp, body := do(t, http.MethodGet, server.URL+"/games/s1/legal-moves", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, body["cells"])
}

func TestHandlers_EndGame(t *testing.T) {
	sessions := &mockSessionManager{}
	sessions.On("EndSession", mock.Anything, "s1").Return(nil).Once()
	server := newTestServer(t, sessions)

	resp, _ := do(t, http.MethodDelete, server.URL+"/games/s1", "")

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	sessions.AssertExpectations(t)
}
