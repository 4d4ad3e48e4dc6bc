package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var errRedisDown = errors.New("redis down")

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) Save(ctx context.Context, sessionID string, state *entity.GameState) error {
	args := that.Called(ctx, sessionID, state)
	return args.Error(0)
}

func (that *mockGameRepo) DeleteByID(ctx context.Context, sessionID string) error {
	args := that.Called(ctx, sessionID)
	return args.Error(0)
}

func testSettings() Settings {
	return Settings{
		DefaultConfig: entity.DefaultGameConfig(),
		MaxBoardSize:  15,
		MaxSessions:   3,
		Seed:          7,
	}
}

func newTestManager(t *testing.T, repo gameRepo) *GameManager {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager, err := NewGameManager(context.Background(), logger, repo, testSettings())
	require.NoError(t, err)

	return manager
}

func TestGameManager_DefaultSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists from the start", func(t *testing.T) {
		manager := newTestManager(t, nil)

		// When: reading the default session by name and by empty id
		byName, err := manager.GetState(ctx, DefaultSessionID)
		require.NoError(t, err)
		byEmpty, err := manager.GetState(ctx, "")
		require.NoError(t, err)

		// Then: both are the same fresh game
		assert.Equal(t, byName, byEmpty)
		assert.Equal(t, entity.StatusStarted, byName.Status)
		assert.Equal(t, 1, manager.SessionCount())
	})

	t.Run("Can't be deleted", func(t *testing.T) {
		manager := newTestManager(t, nil)

		err := manager.DeleteSession(ctx, DefaultSessionID)

		require.ErrorIs(t, err, apperror.ErrDefaultSession)
		require.ErrorIs(t, manager.DeleteSession(ctx, ""), apperror.ErrSessionIDIsEmpty)
	})

	t.Run("Invalid default config fails the manager", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		settings := testSettings()
		settings.DefaultConfig.BoardSize = 0

		_, err := NewGameManager(ctx, logger, nil, settings)

		require.ErrorIs(t, err, apperror.ErrInvalidConfig)
	})
}

func TestGameManager_Sessions(t *testing.T) {
	ctx := context.Background()

	t.Run("Sessions are independent", func(t *testing.T) {
		// Given: a manager with one extra 4x4 session
		manager := newTestManager(t, nil)
		sessionID, state, err := manager.CreateSession(ctx, &entity.GameConfig{BoardSize: 4, WinLength: 3, HumanPlayers: 2})
		require.NoError(t, err)
		require.NotEmpty(t, sessionID)
		assert.Len(t, state.Board, 16)

		// When: playing in the new session
		_, err = manager.MakeMove(ctx, sessionID, 5)
		require.NoError(t, err)

		// Then: the default session is untouched
		defaultState, err := manager.GetState(ctx, DefaultSessionID)
		require.NoError(t, err)
		assert.Equal(t, make([]entity.Mark, 9), defaultState.Board)

		sessionState, err := manager.GetState(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, entity.MarkX, sessionState.Board[5])
	})

	t.Run("Nil config uses the defaults", func(t *testing.T) {
		manager := newTestManager(t, nil)

		_, state, err := manager.CreateSession(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, 3, state.BoardSize)
		assert.Equal(t, 3, state.WinLength)
	})

	t.Run("Invalid config is rejected", func(t *testing.T) {
		manager := newTestManager(t, nil)

		_, _, err := manager.CreateSession(ctx, &entity.GameConfig{BoardSize: 99, WinLength: 3})

		require.ErrorIs(t, err, apperror.ErrInvalidConfig)
		assert.Equal(t, 1, manager.SessionCount())
	})

	t.Run("Session limit", func(t *testing.T) {
		// Given: a limit of three sessions, the default included
		manager := newTestManager(t, nil)
		_, _, err := manager.CreateSession(ctx, nil)
		require.NoError(t, err)
		_, _, err = manager.CreateSession(ctx, nil)
		require.NoError(t, err)

		// When: creating one more
		_, _, err = manager.CreateSession(ctx, nil)

		// Then: the limit is reported
		require.ErrorIs(t, err, apperror.ErrTooManySessions)
	})

	t.Run("Unknown session", func(t *testing.T) {
		manager := newTestManager(t, nil)

		_, err := manager.MakeAIMove(ctx, "missing")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)

		_, err = manager.Reset(ctx, "missing")
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)

		require.ErrorIs(t, manager.DeleteSession(ctx, "missing"), apperror.ErrSessionNotFound)
	})

	t.Run("Deleted session is gone", func(t *testing.T) {
		manager := newTestManager(t, nil)
		sessionID, _, err := manager.CreateSession(ctx, nil)
		require.NoError(t, err)

		require.NoError(t, manager.DeleteSession(ctx, sessionID))

		_, err = manager.GetState(ctx, sessionID)
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("Same seed gives the same games", func(t *testing.T) {
		first := newTestManager(t, nil)
		second := newTestManager(t, nil)

		for range 9 {
			a, err := first.MakeAIMove(ctx, "")
			require.NoError(t, err)
			b, err := second.MakeAIMove(ctx, "")
			require.NoError(t, err)

			require.Equal(t, a, b)
		}
	})

	t.Run("Concurrent moves", func(t *testing.T) {
		manager := newTestManager(t, nil)
		sessionID, _, err := manager.CreateSession(ctx, &entity.GameConfig{BoardSize: 9, WinLength: 5, HumanPlayers: 2})
		require.NoError(t, err)

		var wg sync.WaitGroup
		for position := range 81 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = manager.MakeMove(ctx, sessionID, position)
				_, _ = manager.GetState(ctx, DefaultSessionID)
			}()
		}
		wg.Wait()

		state, err := manager.GetState(ctx, sessionID)
		require.NoError(t, err)

		x, o := 0, 0
		for _, mark := range state.Board {
			switch mark {
			case entity.MarkX:
				x++
			case entity.MarkO:
				o++
			}
		}
		assert.LessOrEqual(t, x-o, 1)
		assert.GreaterOrEqual(t, x-o, 0)
	})
}

func TestGameManager_Mirror(t *testing.T) {
	ctx := context.Background()

	t.Run("Every change is saved", func(t *testing.T) {
		// Given: a repository accepting every snapshot
		repo := &mockGameRepo{}
		repo.On("Save", mock.Anything, DefaultSessionID, mock.AnythingOfType("*entity.GameState")).Return(nil).Times(3)

		manager := newTestManager(t, repo)

		// When: playing and resetting the default session
		_, err := manager.MakeMove(ctx, "", 4)
		require.NoError(t, err)
		_, err = manager.Reset(ctx, DefaultSessionID)
		require.NoError(t, err)

		// Then: creation, the move and the reset were mirrored
		repo.AssertExpectations(t)
	})

	t.Run("Saved snapshot is the returned state", func(t *testing.T) {
		repo := &mockGameRepo{}
		repo.On("Save", mock.Anything, DefaultSessionID, mock.Anything).Return(nil).Once()

		manager := newTestManager(t, repo)

		var saved *entity.GameState
		repo.On("Save", mock.Anything, DefaultSessionID, mock.Anything).
			Run(func(args mock.Arguments) {
				saved = args.Get(2).(*entity.GameState)
			}).
			Return(nil).
			Once()

		state, err := manager.MakeAIMove(ctx, DefaultSessionID)
		require.NoError(t, err)

		assert.Equal(t, state, saved)
		repo.AssertExpectations(t)
	})

	t.Run("Failures don't reach the caller", func(t *testing.T) {
		// Given: a repository that is down
		repo := &mockGameRepo{}
		repo.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(errRedisDown)
		repo.On("DeleteByID", mock.Anything, mock.Anything).Return(errRedisDown)

		manager := newTestManager(t, repo)

		// When: creating, playing and deleting a session
		sessionID, _, err := manager.CreateSession(ctx, nil)
		require.NoError(t, err)

		state, err := manager.MakeMove(ctx, sessionID, 0)
		require.NoError(t, err)

		// Then: gameplay goes on
		assert.Equal(t, entity.MarkX, state.Board[0])
		require.NoError(t, manager.DeleteSession(ctx, sessionID))
		repo.AssertCalled(t, "DeleteByID", mock.Anything, sessionID)
	})
}
