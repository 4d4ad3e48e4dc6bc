package tictactoe

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Random is the source of every random decision the engine makes.
// *rand.Rand from golang.org/x/exp/rand satisfies it.
type Random interface {
	Intn(n int) int
	Float64() float64
}

const (
	aggressiveJitter = 20.0
	cautiousJitter   = 15.0

	candidateThreshold = 0.85
)

type Engine struct {
	rnd Random
}

func NewEngine(rnd Random) *Engine {
	return &Engine{rnd: rnd}
}

// ChooseMove - picks a cell for the side to move and explains the decision.
// The cascade is: win, block, fork, block fork, scored placement.
// It must not be called on a full board or a finished game.
func (that *Engine) ChooseMove(board entity.Board, patterns []Pattern, side entity.Side) (int, *entity.DecisionTrace) {
	trace := &entity.DecisionTrace{}
	opponent := side.Opponent()

	trace.Add(fmt.Sprintf("Analyzing %dx%d board (%s mode)...", board.Size, board.Size, personality(side)), entity.ThoughtInfo)

	if IsDeadDraw(board, patterns) {
		move := board.FirstEmpty()
		trace.Add("Board analysis: NO WINNING PATHS LEFT", entity.ThoughtBlock)
		return move, trace.Decide(move, entity.ReasonNoWins)
	}

	if wins := WinningMoves(board, patterns, side); len(wins) > 0 {
		move := that.pick(wins)
		trace.Add(fmt.Sprintf("Found winning move at %s!", board.PositionName(move)), entity.ThoughtWin)
		return move, trace.Decide(move, entity.ReasonWinningMove)
	}
	trace.Add("No immediate win available", entity.ThoughtInfo)

	if threats := WinningMoves(board, patterns, opponent); len(threats) > 0 {
		move := that.pick(threats)
		trace.Add(fmt.Sprintf("DANGER! %s can win at %s", opponent, board.PositionName(move)), entity.ThoughtBlock)
		trace.Add("Must block immediately!", entity.ThoughtBlock)
		if len(threats) > 1 {
			trace.Add(fmt.Sprintf("%d threats detected! Trouble...", len(threats)), entity.ThoughtBlock)
		}
		return move, trace.Decide(move, entity.ReasonBlockingThreat)
	}
	trace.Add(fmt.Sprintf("No immediate threats from %s", opponent), entity.ThoughtInfo)

	if forks := ForkMoves(board, patterns, side); len(forks) > 0 {
		move := that.pick(forks)
		trace.Add("Creating fork with multiple win paths!", entity.ThoughtStrategy)
		return move, trace.Decide(move, entity.ReasonCreatingFork)
	}
	trace.Add("No fork available", entity.ThoughtInfo)

	if forks := ForkMoves(board, patterns, opponent); len(forks) > 0 {
		move := that.pick(forks)
		trace.Add("Blocking opponent fork!", entity.ThoughtStrategy)
		return move, trace.Decide(move, entity.ReasonBlockingFork)
	}
	trace.Add(fmt.Sprintf("No fork threats from %s", opponent), entity.ThoughtInfo)

	move := that.strategicMove(board, patterns, side)

	switch {
	case board.IsCenter(move):
		trace.Add("Taking center - strongest position", entity.ThoughtStrategy)
		return move, trace.Decide(move, entity.ReasonCenter)
	case board.IsCorner(move):
		trace.Add("Taking corner - good control", entity.ThoughtStrategy)
		return move, trace.Decide(move, entity.ReasonCorner)
	default:
		trace.Add("Strategic position", entity.ThoughtStrategy)
		return move, trace.Decide(move, entity.ReasonStrategic)
	}
}

// WinningMoves - empty cells that complete a line for the side, without duplicates,
// in the order their lines were generated.
func WinningMoves(board entity.Board, patterns []Pattern, side entity.Side) []int {
	own := side.Mark()
	need := len(firstPattern(patterns)) - 1

	var moves []int
	seen := make(map[int]struct{})

	for _, pattern := range patterns {
		count, empty := 0, -1
		for _, cell := range pattern {
			switch board.At(cell) {
			case own:
				count++
			case entity.Empty:
				empty = cell
			}
		}

		if count != need || empty < 0 {
			continue
		}

		if _, ok := seen[empty]; ok {
			continue
		}
		seen[empty] = struct{}{}
		moves = append(moves, empty)
	}

	return moves
}

// ForkMoves - empty cells that would leave the side with two or more winning moves.
func ForkMoves(board entity.Board, patterns []Pattern, side entity.Side) []int {
	var forks []int

	for _, cell := range board.EmptyCells() {
		next := board.With(cell, side.Mark())
		if len(WinningMoves(next, patterns, side)) >= 2 {
			forks = append(forks, cell)
		}
	}

	return forks
}

// PositionScore - static value of a cell for the side, without jitter.
func PositionScore(board entity.Board, patterns []Pattern, index int, side entity.Side) float64 {
	own, opponent := side.Mark(), side.Opponent().Mark()
	score := 0.0

	for _, pattern := range patterns {
		if !pattern.Contains(index) || countMarks(board, pattern, opponent) > 0 {
			continue
		}
		score += math.Pow(10, float64(countMarks(board, pattern, own)))
	}

	center := board.Size / 2
	row, col := board.RowCol(index)
	distance := abs(row-center) + abs(col-center)
	score += float64((board.Size - distance) * 2)

	return score
}

func (that *Engine) strategicMove(board entity.Board, patterns []Pattern, side entity.Side) int {
	jitter := jitterOf(side)
	empty := board.EmptyCells()
	scores := make([]float64, len(empty))
	best := math.Inf(-1)

	for i, cell := range empty {
		scores[i] = PositionScore(board, patterns, cell, side) + that.rnd.Float64()*jitter
		best = max(best, scores[i])
	}

	threshold := best * candidateThreshold
	candidates := make([]int, 0, len(empty))
	for i, cell := range empty {
		if scores[i] >= threshold {
			candidates = append(candidates, cell)
		}
	}

	return that.pick(candidates)
}

func (that *Engine) pick(cells []int) int {
	if len(cells) == 1 {
		return cells[0]
	}
	return cells[that.rnd.Intn(len(cells))]
}

func personality(side entity.Side) string {
	if side == entity.SideX {
		return "Aggressive"
	}
	return "Cautious"
}

func jitterOf(side entity.Side) float64 {
	if side == entity.SideX {
		return aggressiveJitter
	}
	return cautiousJitter
}

func firstPattern(patterns []Pattern) Pattern {
	if len(patterns) == 0 {
		return nil
	}
	return patterns[0]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
