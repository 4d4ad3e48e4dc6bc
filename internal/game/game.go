package game

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

// Session owns one game: its config, board and seating.
// Every operation runs under the session lock and returns a deep copy of the state.
type Session struct {
	mu sync.Mutex

	logger *slog.Logger
	rnd    tictactoe.Random
	engine *tictactoe.Engine

	maxBoardSize int
	config       entity.GameConfig
	patterns     []tictactoe.Pattern
	state        *entity.GameState
	board        entity.Board

	firstMoves *firstMoveHistory
}

func NewSession(logger *slog.Logger, rnd tictactoe.Random, config entity.GameConfig, maxBoardSize int) (*Session, error) {
	config, err := config.Normalize(maxBoardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that := &Session{
		logger:       logger,
		rnd:          rnd,
		engine:       tictactoe.NewEngine(rnd),
		maxBoardSize: maxBoardSize,
		firstMoves:   newFirstMoveHistory(),
	}

	that.configure(config)
	that.reset()

	return that, nil
}

func (that *Session) State() *entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.state.Copy()
}

func (that *Session) Config() entity.GameConfig {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.config
}

// NewGame - applies a new config and starts over. An invalid config leaves the session untouched.
func (that *Session) NewGame(config entity.GameConfig) (*entity.GameState, error) {
	config, err := config.Normalize(that.maxBoardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to start new game: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	that.configure(config)
	that.reset()

	return that.state.Copy(), nil
}

func (that *Session) Reset() *entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.reset()

	return that.state.Copy()
}

// MakeMove - places the mark of the side to move. Moves on a finished game,
// outside the board or on an occupied cell are ignored.
func (that *Session) MakeMove(position int) *entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.state.GameOver || !that.board.InRange(position) || !that.board.IsEmpty(position) {
		return that.state.Copy()
	}

	that.play(position)

	return that.state.Copy()
}

// MakeAIMove - lets the engine play for the side to move, when that side is not human.
func (that *Session) MakeAIMove() *entity.GameState {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.state.GameOver {
		return that.state.Copy()
	}

	if that.state.Seat(that.state.CurrentPlayer).Human {
		that.state.Status = entity.StatusWaitingHuman
		return that.state.Copy()
	}

	move, trace := that.engine.ChooseMove(that.board, that.patterns, that.state.CurrentPlayer)

	that.state.LastThoughts = trace
	that.state.Status = trace.Reason
	that.play(move)

	return that.state.Copy()
}

func (that *Session) configure(config entity.GameConfig) {
	that.config = config
	that.patterns = tictactoe.GeneratePatterns(config.BoardSize, config.WinLength)
}

func (that *Session) reset() {
	that.board = entity.NewBoard(that.config.BoardSize)

	that.state = &entity.GameState{
		Board:         that.board.Cells,
		BoardSize:     that.config.BoardSize,
		WinLength:     that.config.WinLength,
		CurrentPlayer: entity.SideX,
		Winner:        entity.WinnerNone,
		Status:        entity.StatusStarted,
		HumanPlayers:  that.config.HumanPlayers,
	}

	that.seat()
}

// play - puts the current side's mark on the board and moves the game forward.
func (that *Session) play(position int) {
	log := that.logger.With("method", "play")

	side := that.state.CurrentPlayer
	that.board.Place(position, side.Mark())

	log.Debug("mark placed", "side", side.String(), "position", position)

	result := tictactoe.Evaluate(that.board, that.patterns)

	switch result.Verdict {
	case tictactoe.Win:
		that.state.GameOver = true
		that.state.Winner = entity.WinnerOf(result.Winner)
		that.state.WinningPattern = result.Pattern
		that.state.Status = fmt.Sprintf("%s (%s) wins!", that.state.Seat(result.Winner).Name, result.Winner)
	case tictactoe.Draw:
		that.state.GameOver = true
		that.state.Winner = entity.WinnerDraw
		if result.Reason == tictactoe.DrawReasonDeadBoard {
			that.state.Status = entity.StatusDeadDraw
		} else {
			that.state.Status = entity.StatusDraw
		}
	default:
		that.state.CurrentPlayer = side.Opponent()
		return
	}

	log.Info("game finished", "winner", string(that.state.Winner), "status", that.state.Status)
}
