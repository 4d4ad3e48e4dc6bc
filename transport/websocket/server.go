package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type uGame interface {
	GetState(ctx context.Context, sessionID string) (*entity.GameState, error)
	NewGame(ctx context.Context, sessionID string, config entity.GameConfig) (*entity.GameState, error)
	Reset(ctx context.Context, sessionID string) (*entity.GameState, error)
	MakeMove(ctx context.Context, sessionID string, position int) (*entity.GameState, error)
	MakeAIMove(ctx context.Context, sessionID string) (*entity.GameState, error)
}

type handlerFunc func(ctx context.Context, client *client, msg *Message) error

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	subscribersMutex sync.RWMutex
	subscribers      map[string]map[*client]struct{}
}

func New(logger *slog.Logger, uGame uGame, allowedOrigins []string) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},

		handlers:    make(map[string]handlerFunc),
		subscribers: make(map[string]map[*client]struct{}),
	}

	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameReset] = server.handleReset
	server.handlers[actionGameMove] = server.handleMove
	server.handlers[actionGameAIMove] = server.handleAIMove

	return server
}

func (that *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/ws", that.upgradeToWebSocket)
	return r
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and serves it until the client leaves.
func (that *Server) upgradeToWebSocket(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(conn)
	defer func() {
		that.unsubscribeAll(c)
		_ = conn.Close()
	}()

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	if err = that.handleMessages(r.Context(), c); err != nil {
		log.Info("WebSocket connection closed", "reason", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		var message Message
		if err := c.conn.ReadJSON(&message); err != nil {
			if isDecodeError(err) {
				log.Warn("failed to unmarshal message", "error", err)
				if err = c.send(Message{Action: actionError, Payload: mustMarshal(ResponsePayload{Error: "invalid message"})}); err != nil {
					return err
				}
				continue
			}
			return err
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			if err := that.sendErrorResponse(c, message.Action, "unknown action"); err != nil {
				return err
			}
			continue
		}

		if err := handler(ctx, c, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) subscribe(sessionID string, c *client) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	clients, ok := that.subscribers[sessionID]
	if !ok {
		clients = make(map[*client]struct{})
		that.subscribers[sessionID] = clients
	}
	clients[c] = struct{}{}
}

func (that *Server) unsubscribeAll(c *client) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	for sessionID, clients := range that.subscribers {
		delete(clients, c)
		if len(clients) == 0 {
			delete(that.subscribers, sessionID)
		}
	}
}

// broadcast - sends the message to every client watching the session.
func (that *Server) broadcast(sessionID string, msg Message) {
	log := that.logger.With("method", "broadcast")

	that.subscribersMutex.RLock()
	clients := make([]*client, 0, len(that.subscribers[sessionID]))
	for c := range that.subscribers[sessionID] {
		clients = append(clients, c)
	}
	that.subscribersMutex.RUnlock()

	for _, c := range clients {
		if err := c.send(msg); err != nil {
			log.Warn("failed to send game update", "session_id", sessionID, "error", err)
		}
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
	}
}

// client is one websocket connection. Writes are serialized, gorilla allows a single writer.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func newClient(conn *websocket.Conn) *client {
	return &client{conn: conn}
}

func (that *client) send(msg Message) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
