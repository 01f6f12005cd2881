// Package wallet provides the wallet capability the game consumes: a
// connection flag, the current account address, and sign-and-execute for
// escrow intents.
//
// Keypair is a local ed25519 wallet. It derives Sui-style addresses,
// signs the intent-scoped blake2b digest of the transaction bytes and hands
// the signed bytes to a Submitter, normally the chain client.
package wallet
