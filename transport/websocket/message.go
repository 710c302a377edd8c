package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

const (
	actionNewGame = "game:new"
	actionState   = "game:state"
	actionTurn    = "game:turn"
	actionLeave   = "game:leave"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	SessionID string                 `json:"session_id,omitempty"`
	Options   *entity.SessionOptions `json:"options,omitempty"`
	Cell      *int                   `json:"cell,omitempty"`
}

type ResponsePayload struct {
	Session    *entity.Session `json:"session,omitempty"`
	LegalMoves []int           `json:"legal_moves,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type Response struct {
	Action  string          `json:"action"`
	Payload ResponsePayload `json:"payload"`
}
