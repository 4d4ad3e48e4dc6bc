package tictactoe

import (
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type Verdict int

const (
	Continue Verdict = iota
	Win
	Draw
)

const (
	DrawReasonDeadBoard = "no winning paths remain"
	DrawReasonFullBoard = "board is full"
)

// Result is the outcome of evaluating a board.
// Winner and Pattern are set only for Win, Reason only for Draw.
type Result struct {
	Verdict Verdict
	Winner  entity.Side
	Pattern Pattern
	Reason  string
}

func (that Result) IsTerminal() bool {
	return that.Verdict != Continue
}

// Evaluate - checks the board for a finished game. A win always takes precedence,
// then a dead draw on a board that still has free cells, then a full-board draw.
func Evaluate(board entity.Board, patterns []Pattern) Result {
	if side, pattern, ok := findWinner(board, patterns); ok {
		return Result{Verdict: Win, Winner: side, Pattern: pattern}
	}

	full := board.IsFull()

	if !full && IsDeadDraw(board, patterns) {
		return Result{Verdict: Draw, Reason: DrawReasonDeadBoard}
	}

	if full {
		return Result{Verdict: Draw, Reason: DrawReasonFullBoard}
	}

	return Result{Verdict: Continue}
}

// findWinner - returns the first line, in generation order, filled by one side.
func findWinner(board entity.Board, patterns []Pattern) (entity.Side, Pattern, bool) {
	for _, pattern := range patterns {
		first := board.At(pattern[0])
		side, ok := first.Side()
		if !ok {
			continue
		}

		owned := true
		for _, cell := range pattern[1:] {
			if board.At(cell) != first {
				owned = false
				break
			}
		}

		if owned {
			won := make(Pattern, len(pattern))
			copy(won, pattern)
			return side, won, true
		}
	}

	return 0, nil, false
}

// CanStillWin - true if some line holds no opposing mark for the side.
func CanStillWin(board entity.Board, patterns []Pattern, side entity.Side) bool {
	opponent := side.Opponent().Mark()

	for _, pattern := range patterns {
		if countMarks(board, pattern, opponent) == 0 {
			return true
		}
	}

	return false
}

// IsDeadDraw - neither side can complete any line anymore.
func IsDeadDraw(board entity.Board, patterns []Pattern) bool {
	return !CanStillWin(board, patterns, entity.SideX) && !CanStillWin(board, patterns, entity.SideO)
}

func countMarks(board entity.Board, pattern Pattern, mark entity.Mark) int {
	count := 0
	for _, cell := range pattern {
		if board.At(cell) == mark {
			count++
		}
	}
	return count
}
