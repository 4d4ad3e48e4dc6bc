package game

import (
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const firstMoveHistorySize = 10

// firstMoveHistory remembers who opened the last games between a human and the engine.
type firstMoveHistory struct {
	decisions []bool
}

func newFirstMoveHistory() *firstMoveHistory {
	return &firstMoveHistory{decisions: make([]bool, 0, firstMoveHistorySize)}
}

// next - the same side never opens three games in a row, otherwise it is a coin flip.
func (that *firstMoveHistory) next(coin func() bool) bool {
	var humanFirst bool

	if n := len(that.decisions); n >= 2 && that.decisions[n-1] == that.decisions[n-2] {
		humanFirst = !that.decisions[n-1]
	} else {
		humanFirst = coin()
	}

	that.decisions = append(that.decisions, humanFirst)
	if len(that.decisions) > firstMoveHistorySize {
		that.decisions = that.decisions[len(that.decisions)-firstMoveHistorySize:]
	}

	return humanFirst
}

// seat - assigns both sides for the configured number of humans.
func (that *Session) seat() {
	switch that.config.HumanPlayers {
	case 0:
		that.state.PlayerX = entity.StrategicAgentSeat
		that.state.PlayerO = entity.DefensiveAgentSeat
	case 1:
		humanFirst := that.firstMoves.next(func() bool {
			return that.rnd.Intn(2) == 0
		})

		that.state.HumanGoesFirst = humanFirst
		if humanFirst {
			that.state.PlayerX = entity.YouSeat
			that.state.PlayerO = entity.OpponentAgentSeat
		} else {
			that.state.PlayerX = entity.OpponentAgentSeat
			that.state.PlayerO = entity.YouSeat
		}
	default:
		that.state.PlayerX = entity.Player1Seat
		that.state.PlayerO = entity.Player2Seat
	}
}
