package ledger

import (
	"testing"

	"github.com/luca-patrignani/coin-flip/flip"
)

func settledRound(gameID string) Round {
	return Round{
		GameID:       gameID,
		Stage:        StageSettled,
		CreateDigest: "c-" + gameID,
		JoinDigest:   "j-" + gameID,
		FinishDigest: "f-" + gameID,
		Result:       flip.Win,
		Winner:       "0xme",
		Settled:      true,
	}
}

// TestNewJournalGenesis verifies the journal starts with a single genesis block.
func TestNewJournalGenesis(t *testing.T) {
	j := NewJournal()

	if j.Len() != 0 {
		t.Fatalf("expected no rounds, got %d", j.Len())
	}
	genesis := j.Latest()
	if genesis.Index != 0 || genesis.PrevHash != "0" {
		t.Fatalf("unexpected genesis block %+v", genesis)
	}
	if genesis.Hash == "" {
		t.Fatal("genesis block should have a hash")
	}
	if err := j.Verify(); err != nil {
		t.Fatalf("fresh journal should verify: %v", err)
	}
}

func TestAppendLinksBlocks(t *testing.T) {
	j := NewJournal()
	genesis := j.Latest()

	b1, err := j.Append(settledRound("0x1"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if b1.Index != 1 || b1.PrevHash != genesis.Hash {
		t.Fatalf("block 1 not linked to genesis: %+v", b1)
	}
	if b1.Round.ID == "" {
		t.Fatal("expected a generated round id")
	}

	b2, err := j.Append(Round{ID: "fixed", Stage: StageJoin, Error: "join rejected"})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if b2.PrevHash != b1.Hash || b2.Round.ID != "fixed" {
		t.Fatalf("block 2 not linked to block 1: %+v", b2)
	}
	if j.Len() != 2 {
		t.Fatalf("expected 2 rounds, got %d", j.Len())
	}
	if err := j.Verify(); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestGetByIndex(t *testing.T) {
	j := NewJournal()
	if _, err := j.Append(settledRound("0x1")); err != nil {
		t.Fatalf("append: %v", err)
	}
	b, err := j.GetByIndex(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if b.Round.GameID != "0x1" {
		t.Fatalf("unexpected round %+v", b.Round)
	}
	for _, idx := range []int{-1, 2} {
		if _, err := j.GetByIndex(idx); err == nil {
			t.Fatalf("expected out of range error for %d", idx)
		}
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	j := NewJournal()
	for _, id := range []string{"0x1", "0x2", "0x3"} {
		if _, err := j.Append(settledRound(id)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	j.blocks[2].Round.Winner = "0xsomeoneelse"
	if err := j.Verify(); err == nil {
		t.Fatal("expected tampered round to break verification")
	}
	j.blocks[2].Round.Winner = "0xme"
	if err := j.Verify(); err != nil {
		t.Fatalf("restored journal should verify: %v", err)
	}

	j.blocks[3].PrevHash = "broken"
	if err := j.Verify(); err == nil {
		t.Fatal("expected broken link to fail verification")
	}
}

func TestVerifyInvalidGenesis(t *testing.T) {
	j := NewJournal()
	j.blocks[0].PrevHash = "1"
	if err := j.Verify(); err == nil {
		t.Fatal("expected invalid genesis error")
	}
}

func TestOrphans(t *testing.T) {
	j := NewJournal()
	rounds := []Round{
		settledRound("0xsettled"),
		{GameID: "0xunjoined", Stage: StageJoin, Error: "join rejected"},
		{Stage: StageCreate, Error: "create rejected"},
		{GameID: "0xunsettled", Stage: StageFinish, Result: flip.Lose, Error: "finish rejected"},
	}
	for _, r := range rounds {
		if _, err := j.Append(r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	orphans := j.Orphans()
	if len(orphans) != 2 {
		t.Fatalf("expected 2 orphans, got %d", len(orphans))
	}
	if orphans[0].GameID != "0xunjoined" || orphans[1].GameID != "0xunsettled" {
		t.Fatalf("unexpected orphans %+v", orphans)
	}
}
