package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/game"
)

// DefaultSessionID names the session that always exists. An empty id means the same session.
const DefaultSessionID = "default"

type gameRepo interface {
	Save(ctx context.Context, sessionID string, state *entity.GameState) error
	DeleteByID(ctx context.Context, sessionID string) error
}

// Settings bound the sessions a manager hands out.
type Settings struct {
	DefaultConfig entity.GameConfig
	MaxBoardSize  int
	// MaxSessions counts the default session too. Zero means no limit.
	MaxSessions int
	// Seed makes every session reproducible. Zero seeds from the clock.
	Seed int64
}

// GameManager is the registry of live sessions. Each session keeps its own lock,
// the manager lock only guards the map.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	settings Settings

	mu       sync.RWMutex
	sessions map[string]*game.Session
	seeds    *rand.Rand
}

// NewGameManager - gameRepo may be nil, then snapshots are not mirrored.
func NewGameManager(ctx context.Context, logger *slog.Logger, gameRepo gameRepo, settings Settings) (*GameManager, error) {
	seed := uint64(settings.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	that := &GameManager{
		logger:   logger.With("component", "game-manager"),
		gameRepo: gameRepo,
		settings: settings,
		sessions: make(map[string]*game.Session),
		seeds:    rand.New(rand.NewSource(seed)),
	}

	session, err := that.newSession(settings.DefaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create default session: %w", err)
	}

	that.sessions[DefaultSessionID] = session
	that.mirror(ctx, DefaultSessionID, session.State())

	return that, nil
}

// CreateSession - starts a new session, with the default config when config is nil.
func (that *GameManager) CreateSession(ctx context.Context, config *entity.GameConfig) (string, *entity.GameState, error) {
	log := that.logger.With("method", "CreateSession")

	sessionConfig := that.settings.DefaultConfig
	if config != nil {
		sessionConfig = *config
	}

	that.mu.Lock()

	if that.settings.MaxSessions > 0 && len(that.sessions) >= that.settings.MaxSessions {
		that.mu.Unlock()
		return "", nil, fmt.Errorf("%w: limit is %d", apperror.ErrTooManySessions, that.settings.MaxSessions)
	}

	session, err := that.newSession(sessionConfig)
	if err != nil {
		that.mu.Unlock()
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	sessionID := uuid.NewString()
	that.sessions[sessionID] = session

	that.mu.Unlock()

	state := session.State()
	that.mirror(ctx, sessionID, state)

	log.Info("session created", "session_id", sessionID, "board_size", state.BoardSize, "win_length", state.WinLength)

	return sessionID, state, nil
}

func (that *GameManager) DeleteSession(ctx context.Context, sessionID string) error {
	log := that.logger.With("method", "DeleteSession")

	if sessionID == "" {
		return apperror.ErrSessionIDIsEmpty
	}

	if sessionID == DefaultSessionID {
		return apperror.ErrDefaultSession
	}

	that.mu.Lock()
	_, ok := that.sessions[sessionID]
	delete(that.sessions, sessionID)
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID)
	}

	if that.gameRepo != nil {
		if err := that.gameRepo.DeleteByID(ctx, sessionID); err != nil {
			log.Error("failed to delete game snapshot", "session_id", sessionID, "error", err)
		}
	}

	log.Info("session deleted", "session_id", sessionID)

	return nil
}

func (that *GameManager) SessionCount() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

func (that *GameManager) GetState(_ context.Context, sessionID string) (*entity.GameState, error) {
	session, err := that.session(sessionID)
	if err != nil {
		return nil, err
	}

	return session.State(), nil
}

func (that *GameManager) NewGame(ctx context.Context, sessionID string, config entity.GameConfig) (*entity.GameState, error) {
	session, err := that.session(sessionID)
	if err != nil {
		return nil, err
	}

	state, err := session.NewGame(config)
	if err != nil {
		return nil, fmt.Errorf("failed to start new game: %w", err)
	}

	that.mirror(ctx, that.resolve(sessionID), state)

	return state, nil
}

func (that *GameManager) Reset(ctx context.Context, sessionID string) (*entity.GameState, error) {
	session, err := that.session(sessionID)
	if err != nil {
		return nil, err
	}

	state := session.Reset()
	that.mirror(ctx, that.resolve(sessionID), state)

	return state, nil
}

// MakeMove - illegal moves are not errors, the unchanged state is returned.
func (that *GameManager) MakeMove(ctx context.Context, sessionID string, position int) (*entity.GameState, error) {
	session, err := that.session(sessionID)
	if err != nil {
		return nil, err
	}

	state := session.MakeMove(position)
	that.mirror(ctx, that.resolve(sessionID), state)

	return state, nil
}

func (that *GameManager) MakeAIMove(ctx context.Context, sessionID string) (*entity.GameState, error) {
	session, err := that.session(sessionID)
	if err != nil {
		return nil, err
	}

	state := session.MakeAIMove()
	that.mirror(ctx, that.resolve(sessionID), state)

	return state, nil
}

func (that *GameManager) resolve(sessionID string) string {
	if sessionID == "" {
		return DefaultSessionID
	}
	return sessionID
}

func (that *GameManager) session(sessionID string) (*game.Session, error) {
	sessionID = that.resolve(sessionID)

	that.mu.RLock()
	session, ok := that.sessions[sessionID]
	that.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, sessionID)
	}

	return session, nil
}

// newSession - must be called with the manager lock held, or before the manager is shared.
func (that *GameManager) newSession(config entity.GameConfig) (*game.Session, error) {
	rnd := rand.New(rand.NewSource(that.seeds.Uint64()))

	session, err := game.NewSession(that.logger.With("component", "session"), rnd, config, that.settings.MaxBoardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// mirror - writes the snapshot to the repository. Failures are logged and never reach the caller.
func (that *GameManager) mirror(ctx context.Context, sessionID string, state *entity.GameState) {
	if that.gameRepo == nil {
		return
	}

	log := that.logger.With("method", "mirror")

	if err := that.gameRepo.Save(ctx, sessionID, state); err != nil {
		log.Error("failed to save game snapshot", "session_id", sessionID, "error", err)
	}
}
