package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager, err := usecase.NewGameManager(context.Background(), logger, nil, usecase.Settings{
		DefaultConfig: entity.GameConfig{BoardSize: 3, WinLength: 3, HumanPlayers: 2},
		MaxBoardSize:  15,
		Seed:          3,
	})
	require.NoError(t, err)

	server := httptest.NewServer(New(logger, manager, []string{"http://localhost:3000"}).Handler())
	t.Cleanup(server.Close)

	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: raw}))
}

func receive(t *testing.T, conn *websocket.Conn) (string, ResponsePayload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	var payload ResponsePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))

	return msg.Action, payload
}

func TestServer_Actions(t *testing.T) {
	t.Run("State of the default session", func(t *testing.T) {
		server := newTestServer(t)
		conn := dial(t, server)

		// When: asking for the state without a session id
		send(t, conn, actionGameState, Payload{})

		// Then: the default session answers
		action, payload := receive(t, conn)
		assert.Equal(t, actionGameState, action)
		assert.Equal(t, usecase.DefaultSessionID, payload.SessionID)
		require.NotNil(t, payload.State)
		assert.Len(t, payload.State.Board, 9)
	})

	t.Run("Moves are broadcast to subscribers", func(t *testing.T) {
		// Given: two clients watching the default session
		server := newTestServer(t)
		first := dial(t, server)
		second := dial(t, server)

		send(t, first, actionGameState, Payload{})
		receive(t, first)
		send(t, second, actionGameState, Payload{})
		receive(t, second)

		// When: the first client plays
		position := 4
		send(t, first, actionGameMove, Payload{Position: &position})

		// Then: both see the move
		for _, conn := range []*websocket.Conn{first, second} {
			action, payload := receive(t, conn)
			assert.Equal(t, actionGameMove, action)
			require.NotNil(t, payload.State)
			assert.Equal(t, entity.MarkX, payload.State.Board[4])
		}
	})

	t.Run("New game and AI move", func(t *testing.T) {
		server := newTestServer(t)
		conn := dial(t, server)

		send(t, conn, actionGameNew, Payload{Config: &entity.GameConfig{BoardSize: 4, WinLength: 3}})
		_, payload := receive(t, conn)
		require.NotNil(t, payload.State)
		assert.Len(t, payload.State.Board, 16)

		send(t, conn, actionGameAIMove, Payload{})
		_, payload = receive(t, conn)
		require.NotNil(t, payload.State)
		require.NotNil(t, payload.State.LastThoughts)
		assert.Equal(t, entity.SideO, payload.State.CurrentPlayer)

		send(t, conn, actionGameReset, nil)
		_, payload = receive(t, conn)
		require.NotNil(t, payload.State)
		assert.Equal(t, make([]entity.Mark, 16), payload.State.Board)
	})

	t.Run("Errors go back to the sender", func(t *testing.T) {
		server := newTestServer(t)
		conn := dial(t, server)

		send(t, conn, actionGameMove, Payload{})
		action, payload := receive(t, conn)
		assert.Equal(t, actionGameMove, action)
		assert.Equal(t, "position is required", payload.Error)

		send(t, conn, actionGameState, Payload{SessionID: "missing"})
		_, payload = receive(t, conn)
		assert.Contains(t, payload.Error, "session not found")

		send(t, conn, "game:unknown", nil)
		_, payload = receive(t, conn)
		assert.Equal(t, "unknown action", payload.Error)

		send(t, conn, actionGameNew, Payload{Config: &entity.GameConfig{BoardSize: 0}})
		_, payload = receive(t, conn)
		assert.Contains(t, payload.Error, "invalid game config")
	})
}

func TestServer_Origin(t *testing.T) {
	server := newTestServer(t)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"http://evil.example"}}

	_, resp, err := websocket.DefaultDialer.Dial(url, header)

	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
