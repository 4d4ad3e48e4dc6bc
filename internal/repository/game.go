package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const gameKeyPrefix = "game:"

var ErrGameNotFound = errors.New("game not found")

// GameRepository mirrors session snapshots. Nothing is ever read back into a session.
type GameRepository interface {
	Save(ctx context.Context, sessionID string, state *entity.GameState) error
	GetByID(ctx context.Context, sessionID string) (*entity.GameState, error)
	DeleteByID(ctx context.Context, sessionID string) error
}

type dbGame struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGameRepository - ttl of zero keeps snapshots until the session is deleted.
func NewGameRepository(client *redis.Client, ttl time.Duration) GameRepository {
	return &dbGame{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbGame) Save(ctx context.Context, sessionID string, state *entity.GameState) error {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("could not marshal game state: %w", err)
	}

	if err = that.client.Set(ctx, gameKeyPrefix+sessionID, stateJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, sessionID string) (*entity.GameState, error) {
	response, err := that.client.Get(ctx, gameKeyPrefix+sessionID).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var state entity.GameState
	if err = json.Unmarshal([]byte(response), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game state: %w", err)
	}

	return &state, nil
}

func (that *dbGame) DeleteByID(ctx context.Context, sessionID string) error {
	if err := that.client.Del(ctx, gameKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete game by id: %w", err)
	}

	return nil
}
