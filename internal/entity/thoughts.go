package entity

// ThoughtKind tags a trace line so clients can colour it.
type ThoughtKind string

const (
	ThoughtInfo     ThoughtKind = ""
	ThoughtWin      ThoughtKind = "win"
	ThoughtBlock    ThoughtKind = "block"
	ThoughtStrategy ThoughtKind = "strategy"
)

const (
	ReasonWinningMove    = "winning move"
	ReasonBlockingThreat = "blocking threat"
	ReasonCreatingFork   = "creating fork"
	ReasonBlockingFork   = "blocking opponent fork"
	ReasonCenter         = "center"
	ReasonCorner         = "corner"
	ReasonStrategic      = "strategic position"
	ReasonNoWins         = "no wins possible"
)

type Thought struct {
	Text string      `json:"text"`
	Kind ThoughtKind `json:"type"`
}

// DecisionTrace explains a single AI move.
type DecisionTrace struct {
	Thoughts   []Thought `json:"thoughts"`
	ChosenMove int       `json:"chosenMove"`
	Reason     string    `json:"reason"`
}

func (that *DecisionTrace) Add(text string, kind ThoughtKind) {
	that.Thoughts = append(that.Thoughts, Thought{Text: text, Kind: kind})
}

// Decide - records the chosen cell and the reason, returning the trace for chaining.
func (that *DecisionTrace) Decide(move int, reason string) *DecisionTrace {
	that.ChosenMove = move
	that.Reason = reason
	return that
}

func (that *DecisionTrace) Copy() *DecisionTrace {
	cp := *that
	cp.Thoughts = make([]Thought, len(that.Thoughts))
	copy(cp.Thoughts, that.Thoughts)
	return &cp
}
