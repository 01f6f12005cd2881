package ledger

import (
	"time"

	"github.com/luca-patrignani/coin-flip/flip"
)

// Stage is the last step a round reached.
type Stage string

const (
	StageCreate  Stage = "create"
	StageJoin    Stage = "join"
	StageFlip    Stage = "flip"
	StageFinish  Stage = "finish"
	StageSettled Stage = "settled"
)

// Round is the journal record of one flip request.
type Round struct {
	ID           string        `json:"id"`
	GameID       string        `json:"game_id,omitempty"`
	Stage        Stage         `json:"stage"`
	CreateDigest string        `json:"create_digest,omitempty"`
	JoinDigest   string        `json:"join_digest,omitempty"`
	FinishDigest string        `json:"finish_digest,omitempty"`
	Result       flip.Outcome  `json:"result"`
	Winner       string        `json:"winner,omitempty"`
	Settled      bool          `json:"settled"`
	Error        string        `json:"error,omitempty"`
	Receipt      *flip.Receipt `json:"receipt,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	EndedAt      time.Time     `json:"ended_at"`
}

// Orphaned reports whether the round left an unsettled escrow behind.
func (r Round) Orphaned() bool {
	return r.GameID != "" && !r.Settled
}

// Block is a single entry of the journal.
type Block struct {
	Index     int    `json:"index"`
	Timestamp int64  `json:"timestamp"`
	PrevHash  string `json:"prev_hash"`
	Hash      string `json:"hash"`
	Round     Round  `json:"round"`
}
