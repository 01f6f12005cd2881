// Package config loads the coin-flip client configuration from the process
// environment.
//
// The configuration is parsed once at startup into a Config value and passed
// by reference to the escrow builder, the wallet and the game orchestrator.
// Nothing else in the module reads the environment.
package config
