// Package flip draws the coin-flip outcome of a round.
//
// The draw is local: one unbiased bit from the random stream of kyber's
// Ed25519 suite. Each toss is returned with a Schnorr-signed Receipt binding
// the outcome to the escrow it was drawn for, so the decision reported to
// the contract can be checked against the session key afterwards. The
// receipt does not make the draw verifiable by the contract.
package flip
