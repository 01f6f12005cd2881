package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Journal is an append-only chain of round records.
type Journal struct {
	mu     sync.RWMutex
	blocks []Block
}

// NewJournal creates a journal holding only the genesis block.
// The genesis block has index 0, previous hash "0" and an empty round.
func NewJournal() *Journal {
	j := &Journal{blocks: make([]Block, 0, 16)}

	genesis := Block{
		Index:     0,
		Timestamp: time.Now().Unix(),
		PrevHash:  "0",
		Round:     Round{ID: "genesis"},
	}
	genesis.Hash = calculateHash(genesis)
	j.blocks = append(j.blocks, genesis)
	return j
}

// Append records a round. A round without an ID gets a fresh one.
func (j *Journal) Append(r Round) (Block, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	latest := j.blocks[len(j.blocks)-1]
	b := Block{
		Index:     latest.Index + 1,
		Timestamp: time.Now().Unix(),
		PrevHash:  latest.Hash,
		Round:     r,
	}
	b.Hash = calculateHash(b)

	if err := validateBlock(b, latest); err != nil {
		return Block{}, fmt.Errorf("invalid block: %w", err)
	}
	j.blocks = append(j.blocks, b)
	return b, nil
}

// Latest returns the most recently appended block.
func (j *Journal) Latest() Block {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.blocks[len(j.blocks)-1]
}

// GetByIndex returns the block at index.
func (j *Journal) GetByIndex(index int) (Block, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if index < 0 || index >= len(j.blocks) {
		return Block{}, fmt.Errorf("index %d out of range", index)
	}
	return j.blocks[index], nil
}

// Len returns the number of recorded rounds, genesis excluded.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.blocks) - 1
}

// Rounds returns every recorded round, oldest first.
func (j *Journal) Rounds() []Round {
	j.mu.RLock()
	defer j.mu.RUnlock()

	rounds := make([]Round, 0, len(j.blocks)-1)
	for _, b := range j.blocks[1:] {
		rounds = append(rounds, b.Round)
	}
	return rounds
}

// Orphans returns the rounds whose escrow was created but not settled.
func (j *Journal) Orphans() []Round {
	var orphans []Round
	for _, r := range j.Rounds() {
		if r.Orphaned() {
			orphans = append(orphans, r)
		}
	}
	return orphans
}

// Verify checks the genesis block and every hash link of the chain.
func (j *Journal) Verify() error {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if len(j.blocks) == 0 {
		return fmt.Errorf("empty journal")
	}
	if j.blocks[0].PrevHash != "0" {
		return fmt.Errorf("invalid genesis block")
	}
	for i := 1; i < len(j.blocks); i++ {
		if err := validateBlock(j.blocks[i], j.blocks[i-1]); err != nil {
			return fmt.Errorf("block %d invalid: %w", i, err)
		}
	}
	return nil
}

func validateBlock(current, previous Block) error {
	if current.Index != previous.Index+1 {
		return fmt.Errorf("invalid index: expected %d, got %d", previous.Index+1, current.Index)
	}
	if current.PrevHash != previous.Hash {
		return fmt.Errorf("invalid prev hash: expected %s, got %s", previous.Hash, current.PrevHash)
	}
	if expected := calculateHash(current); current.Hash != expected {
		return fmt.Errorf("invalid hash: expected %s, got %s", expected, current.Hash)
	}
	return nil
}

// calculateHash hashes index, timestamp, previous hash and the JSON form of
// the round.
func calculateHash(b Block) string {
	roundBytes, _ := json.Marshal(b.Round)
	data := fmt.Sprintf("%d%d%s%s", b.Index, b.Timestamp, b.PrevHash, roundBytes)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
