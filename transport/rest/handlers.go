package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var errPositionRequired = errors.New("position is required")

type uGame interface {
	CreateSession(ctx context.Context, config *entity.GameConfig) (string, *entity.GameState, error)
	DeleteSession(ctx context.Context, sessionID string) error

	GetState(ctx context.Context, sessionID string) (*entity.GameState, error)
	NewGame(ctx context.Context, sessionID string, config entity.GameConfig) (*entity.GameState, error)
	Reset(ctx context.Context, sessionID string) (*entity.GameState, error)
	MakeMove(ctx context.Context, sessionID string, position int) (*entity.GameState, error)
	MakeAIMove(ctx context.Context, sessionID string) (*entity.GameState, error)
}

type Handlers struct {
	logger *slog.Logger
	uGame  uGame
}

type moveRequest struct {
	Position *int `json:"position"`
}

type sessionResponse struct {
	SessionID string            `json:"sessionId"`
	State     *entity.GameState `json:"state"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHandlers(logger *slog.Logger, uGame uGame) *Handlers {
	return &Handlers{
		logger: logger.With("component", "rest"),
		uGame:  uGame,
	}
}

func (that *Handlers) gameRoutes(r chi.Router) {
	r.Get("/state", that.GetState)
	r.Post("/new", that.NewGame)
	r.Post("/reset", that.Reset)
	r.Post("/move", that.MakeMove)
	r.Post("/ai-move", that.MakeAIMove)
}

func (that *Handlers) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := that.uGame.GetState(r.Context(), sessionID(r))
	that.respond(w, state, err)
}

// NewGame - fields missing from the body keep their default values.
func (that *Handlers) NewGame(w http.ResponseWriter, r *http.Request) {
	config, err := decodeConfig(r)
	if err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	if config == nil {
		defaults := entity.DefaultGameConfig()
		config = &defaults
	}

	state, err := that.uGame.NewGame(r.Context(), sessionID(r), *config)
	that.respond(w, state, err)
}

func (that *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	state, err := that.uGame.Reset(r.Context(), sessionID(r))
	that.respond(w, state, err)
}

func (that *Handlers) MakeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	if req.Position == nil {
		that.writeError(w, http.StatusBadRequest, errPositionRequired)
		return
	}

	state, err := that.uGame.MakeMove(r.Context(), sessionID(r), *req.Position)
	that.respond(w, state, err)
}

func (that *Handlers) MakeAIMove(w http.ResponseWriter, r *http.Request) {
	state, err := that.uGame.MakeAIMove(r.Context(), sessionID(r))
	that.respond(w, state, err)
}

// CreateSession - an empty body starts the session with the configured defaults.
func (that *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	config, err := decodeConfig(r)
	if err != nil {
		that.writeError(w, http.StatusBadRequest, err)
		return
	}

	id, state, err := that.uGame.CreateSession(r.Context(), config)
	if err != nil {
		that.writeError(w, statusOf(err), err)
		return
	}

	that.writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id, State: state})
}

func (that *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := that.uGame.DeleteSession(r.Context(), sessionID(r)); err != nil {
		that.writeError(w, statusOf(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Handlers) respond(w http.ResponseWriter, state *entity.GameState, err error) {
	if err != nil {
		that.writeError(w, statusOf(err), err)
		return
	}

	that.writeJSON(w, http.StatusOK, state)
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func (that *Handlers) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidConfig),
		errors.Is(err, apperror.ErrDefaultSession),
		errors.Is(err, apperror.ErrSessionIDIsEmpty):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrTooManySessions):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}

// decodeConfig - returns nil for an empty body.
func decodeConfig(r *http.Request) (*entity.GameConfig, error) {
	config := entity.DefaultGameConfig()

	err := json.NewDecoder(r.Body).Decode(&config)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &config, nil
}
