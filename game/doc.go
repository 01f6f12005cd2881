// Package game runs the coin-flip round against the escrow contract.
//
// # Round Lifecycle
//
// A round moves through the phases
//
//	Idle → Creating → Joining → AwaitingFlip → Finishing → Idle
//
// and falls back to Idle from any other phase when a step fails:
//  1. Creating submits create_game and extracts the new escrow id
//  2. Joining submits join_game for the second stake
//  3. AwaitingFlip waits for the flip animation and draws the outcome locally
//  4. Finishing submits finish_game with the winner address
//
// The outcome is decided by this client and only reported to the contract.
// Under the optimistic policy the result is shown before finish_game is
// confirmed and a failed finish does not take it back.
//
// # Concurrency
//
// At most one round is in flight. A flip requested while a round runs is
// ignored. Errors never leave the orchestrator: they are logged, recorded in
// the journal and visible only as the terminal state of the round.
package game
