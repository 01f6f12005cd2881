package game

import "github.com/luca-patrignani/coin-flip/flip"

// Phase is the orchestrator state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCreating
	PhaseJoining
	PhaseAwaitingFlip
	PhaseFinishing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCreating:
		return "creating"
	case PhaseJoining:
		return "joining"
	case PhaseAwaitingFlip:
		return "awaiting_flip"
	case PhaseFinishing:
		return "finishing"
	default:
		return "unknown"
	}
}

// Settlement is how the last round ended.
type Settlement int

const (
	SettlementNone Settlement = iota
	// SettlementSettled means finish_game went through.
	SettlementSettled
	// SettlementUnsettled means the result was shown but finish_game failed.
	SettlementUnsettled
	// SettlementErrored means the round was abandoned without a result.
	SettlementErrored
)

// RoundState is the client-local state of the game. It is never persisted.
type RoundState struct {
	Phase        Phase
	Flipping     bool
	Result       flip.Outcome
	RoundsPlayed int
	GameID       string
	Settlement   Settlement
	// Err is the failure of the last round, kept for logs only.
	Err error
}

// View is what the presentation layer renders.
type View struct {
	IsConnected  bool
	Address      string
	StatusLabel  string
	IsFlipping   bool
	Result       flip.Outcome
	RoundsPlayed int
	CanFlip      bool
}

const (
	LabelConnect  = "Connect your wallet to enter the arena."
	LabelFlipping = "The coin is in the air..."
	LabelWin      = "You won!"
	LabelLose     = "Computer won this round."
	LabelReady    = "Ready when you are."
)

func statusLabel(connected bool, s RoundState) string {
	switch {
	case !connected:
		return LabelConnect
	case s.Flipping:
		return LabelFlipping
	case s.Result == flip.Win:
		return LabelWin
	case s.Result == flip.Lose:
		return LabelLose
	default:
		return LabelReady
	}
}
