// Package escrow builds the move-call intents of the coin-flip escrow
// contract and reads escrow objects back from the chain.
//
// The contract exposes three entry points under "<package>::escrow":
//
//	create_game(coin, amount)
//	join_game(game, coin)
//	finish_game(game, winner)
//
// Builders only describe calls; they never touch the network and perform
// no validation the contract itself would perform.
package escrow
