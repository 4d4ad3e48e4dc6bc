package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const (
	DefaultBoardSize = 3
	DefaultWinLength = 3

	MaxHumanPlayers = 2
)

const (
	StatusStarted      = "Game started"
	StatusWaitingHuman = "Waiting for human move"
	StatusDeadDraw     = "Draw - No winning paths remaining!"
	StatusDraw         = "It's a draw!"
)

// Winner is empty while the game runs, a side mark or WinnerDraw once it ends.
type Winner string

const (
	WinnerNone Winner = ""
	WinnerX    Winner = "X"
	WinnerO    Winner = "O"
	WinnerDraw Winner = "draw"
)

func WinnerOf(side Side) Winner {
	if side == SideX {
		return WinnerX
	}
	return WinnerO
}

type GameConfig struct {
	BoardSize    int `json:"boardSize"`
	WinLength    int `json:"winLength"`
	HumanPlayers int `json:"humanPlayers"`
}

func DefaultGameConfig() GameConfig {
	return GameConfig{
		BoardSize: DefaultBoardSize,
		WinLength: DefaultWinLength,
	}
}

// Normalize - validates the config and clamps the win length to the board size.
// Non-positive sizes and lengths, boards above maxBoardSize and a human count
// outside 0..2 are rejected instead of being propagated.
func (that GameConfig) Normalize(maxBoardSize int) (GameConfig, error) {
	if that.BoardSize < 1 {
		return that, fmt.Errorf("%w: board size %d", apperror.ErrInvalidConfig, that.BoardSize)
	}

	if maxBoardSize > 0 && that.BoardSize > maxBoardSize {
		return that, fmt.Errorf("%w: board size %d exceeds %d", apperror.ErrInvalidConfig, that.BoardSize, maxBoardSize)
	}

	if that.WinLength < 1 {
		return that, fmt.Errorf("%w: win length %d", apperror.ErrInvalidConfig, that.WinLength)
	}

	if that.HumanPlayers < 0 || that.HumanPlayers > MaxHumanPlayers {
		return that, fmt.Errorf("%w: human players %d", apperror.ErrInvalidConfig, that.HumanPlayers)
	}

	that.WinLength = min(that.WinLength, that.BoardSize)

	return that, nil
}

// GameState is the snapshot of a session handed to callers.
type GameState struct {
	Board          []Mark         `json:"board"`
	BoardSize      int            `json:"boardSize"`
	WinLength      int            `json:"winLength"`
	CurrentPlayer  Side           `json:"currentPlayer"`
	GameOver       bool           `json:"gameOver"`
	Winner         Winner         `json:"winner"`
	Status         string         `json:"status"`
	HumanPlayers   int            `json:"humanPlayers"`
	HumanGoesFirst bool           `json:"humanGoesFirst"`
	PlayerX        Seat           `json:"playerX"`
	PlayerO        Seat           `json:"playerO"`
	WinningPattern []int          `json:"winningPattern"`
	LastThoughts   *DecisionTrace `json:"lastThoughts"`
}

// Seat - returns the seat assignment of the given side.
func (that *GameState) Seat(side Side) Seat {
	if side == SideX {
		return that.PlayerX
	}
	return that.PlayerO
}

// Copy - deep copy, so callers can't reach the session's internals.
func (that *GameState) Copy() *GameState {
	cp := *that

	cp.Board = make([]Mark, len(that.Board))
	copy(cp.Board, that.Board)

	if that.WinningPattern != nil {
		cp.WinningPattern = make([]int, len(that.WinningPattern))
		copy(cp.WinningPattern, that.WinningPattern)
	}

	if that.LastThoughts != nil {
		cp.LastThoughts = that.LastThoughts.Copy()
	}

	return &cp
}
