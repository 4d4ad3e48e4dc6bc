package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const (
	actionGameState  = "game:state"
	actionGameNew    = "game:new"
	actionGameReset  = "game:reset"
	actionGameMove   = "game:move"
	actionGameAIMove = "game:ai-move"
	actionError      = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is what clients send. An empty session id means the default session.
type Payload struct {
	SessionID string             `json:"sessionId,omitempty"`
	Config    *entity.GameConfig `json:"config,omitempty"`
	Position  *int               `json:"position,omitempty"`
}

type ResponsePayload struct {
	SessionID string            `json:"sessionId,omitempty"`
	State     *entity.GameState `json:"state,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// handleGameState - answers only the asking client and subscribes it to the session.
func (that *Server) handleGameState(ctx context.Context, c *client, msg *Message) error {
	payloadReq, err := that.readPayload(c, msg)
	if err != nil {
		return err
	}

	state, err := that.uGame.GetState(ctx, payloadReq.SessionID)
	if err != nil {
		return that.sendErrorResponse(c, msg.Action, err.Error())
	}

	that.subscribe(payloadReq.SessionID, c)

	return c.send(response(msg.Action, payloadReq.SessionID, state))
}

func (that *Server) handleNewGame(ctx context.Context, c *client, msg *Message) error {
	payloadReq, err := that.readPayload(c, msg)
	if err != nil {
		return err
	}

	config := entity.DefaultGameConfig()
	if payloadReq.Config != nil {
		config = *payloadReq.Config
	}

	return that.mutate(c, msg.Action, payloadReq.SessionID, func() (*entity.GameState, error) {
		return that.uGame.NewGame(ctx, payloadReq.SessionID, config)
	})
}

func (that *Server) handleReset(ctx context.Context, c *client, msg *Message) error {
	payloadReq, err := that.readPayload(c, msg)
	if err != nil {
		return err
	}

	return that.mutate(c, msg.Action, payloadReq.SessionID, func() (*entity.GameState, error) {
		return that.uGame.Reset(ctx, payloadReq.SessionID)
	})
}

func (that *Server) handleMove(ctx context.Context, c *client, msg *Message) error {
	payloadReq, err := that.readPayload(c, msg)
	if err != nil {
		return err
	}

	if payloadReq.Position == nil {
		return that.sendErrorResponse(c, msg.Action, "position is required")
	}

	return that.mutate(c, msg.Action, payloadReq.SessionID, func() (*entity.GameState, error) {
		return that.uGame.MakeMove(ctx, payloadReq.SessionID, *payloadReq.Position)
	})
}

func (that *Server) handleAIMove(ctx context.Context, c *client, msg *Message) error {
	payloadReq, err := that.readPayload(c, msg)
	if err != nil {
		return err
	}

	return that.mutate(c, msg.Action, payloadReq.SessionID, func() (*entity.GameState, error) {
		return that.uGame.MakeAIMove(ctx, payloadReq.SessionID)
	})
}

// mutate - runs the operation and broadcasts the new state to the session's subscribers.
// Errors go back to the sender only.
func (that *Server) mutate(c *client, action, sessionID string, operation func() (*entity.GameState, error)) error {
	state, err := operation()
	if err != nil {
		return that.sendErrorResponse(c, action, err.Error())
	}

	that.subscribe(sessionID, c)
	that.broadcast(sessionID, response(action, sessionID, state))

	return nil
}

// readPayload - decodes the request, the session id always comes back set.
func (that *Server) readPayload(c *client, msg *Message) (*Payload, error) {
	var payloadReq Payload

	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			if sendErr := that.sendErrorResponse(c, msg.Action, "invalid payload"); sendErr != nil {
				return nil, sendErr
			}
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	if payloadReq.SessionID == "" {
		payloadReq.SessionID = usecase.DefaultSessionID
	}

	return &payloadReq, nil
}

func (that *Server) sendErrorResponse(c *client, action, errorMsg string) error {
	msg := Message{
		Action:  action,
		Payload: mustMarshal(ResponsePayload{Error: errorMsg}),
	}

	if err := c.send(msg); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

func response(action, sessionID string, state *entity.GameState) Message {
	return Message{
		Action:  action,
		Payload: mustMarshal(ResponsePayload{SessionID: sessionID, State: state}),
	}
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
