package entity

// Seat describes who controls one side of the board.
type Seat struct {
	Human       bool   `json:"human"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var (
	StrategicAgentSeat = Seat{Name: "Strategic Agent", Description: "Thinks ahead, blocks threats"}
	DefensiveAgentSeat = Seat{Name: "Defensive Agent", Description: "Analyzes board, counters moves"}
	OpponentAgentSeat  = Seat{Name: "AI Opponent", Description: "Strategic AI agent"}

	YouSeat     = Seat{Human: true, Name: "You", Description: "Click a cell to place your mark"}
	Player1Seat = Seat{Human: true, Name: "Player 1", Description: "Click a cell to place your mark"}
	Player2Seat = Seat{Human: true, Name: "Player 2", Description: "Click a cell to place your mark"}
)
