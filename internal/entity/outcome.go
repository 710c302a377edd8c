package entity

const (
	StatusInProgress = "in_progress"
	StatusWon        = "won"
	StatusDraw       = "draw"
)

// Outcome of a game. Winner is set only when Status is StatusWon.
type Outcome struct {
	Status string `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
}

func InProgress() Outcome {
	return Outcome{Status: StatusInProgress}
}

func Won(m Mark) Outcome {
	return Outcome{Status: StatusWon, Winner: m}
}

func Draw() Outcome {
	return Outcome{Status: StatusDraw}
}

func (that Outcome) IsInProgress() bool {
	return that.Status == StatusInProgress
}

// IsTerminal - true for a win or a draw.
func (that Outcome) IsTerminal() bool {
	return !that.IsInProgress()
}

func (that Outcome) String() string {
	switch that.Status {
	case StatusWon:
		return string(that.Winner) + " wins"
	case StatusDraw:
		return "draw"
	default:
		return "in progress"
	}
}
