// Package ledger keeps an append-only, hash-chained journal of the coin-flip
// rounds played in this session.
//
// # Core Components
//
// Journal: the in-memory chain of blocks, starting from a genesis block.
//
// Block: one round record plus the hash link to the previous block.
//
// Round: what a round did on chain: the escrow it created, the digests of
// its transactions, the local result and whether settlement went through.
//
// # Security Properties
//
// Any modification of a recorded round breaks the hash chain and is
// reported by Verify. The journal lives only as long as the process.
//
// # Orphans
//
// A round that created an escrow but never settled it leaves funds locked
// on chain. Orphans lists those rounds so the operator can follow up.
package ledger
