package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// SettlementPolicy decides when the locally drawn result is revealed.
type SettlementPolicy string

const (
	// PolicyOptimistic reveals the result before the finish call is
	// confirmed and swallows a failed finish.
	PolicyOptimistic SettlementPolicy = "optimistic"
	// PolicyConfirmed reveals the result only once the finish call succeeded.
	PolicyConfirmed SettlementPolicy = "confirmed"
)

// ErrMissingPackageID is returned by Load when PACKAGE_ID is not set.
var ErrMissingPackageID = errors.New("PACKAGE_ID is required")

// Config holds every environment-supplied setting of the client.
type Config struct {
	PackageID        string           `env:"PACKAGE_ID"`
	EntryAmount      uint64           `env:"ENTRY_AMOUNT" envDefault:"1000000"`
	Network          string           `env:"NETWORK" envDefault:"testnet"`
	RPCURL           string           `env:"RPC_URL"`
	OpponentAddress  string           `env:"COMPUTER_ADDRESS"`
	FlipDuration     time.Duration    `env:"FLIP_DURATION" envDefault:"1800ms"`
	GasBudget        uint64           `env:"GAS_BUDGET" envDefault:"10000000"`
	RPCTimeout       time.Duration    `env:"RPC_TIMEOUT" envDefault:"0s"`
	SettlementPolicy SettlementPolicy `env:"SETTLEMENT_POLICY" envDefault:"optimistic"`
	WalletSeed       string           `env:"WALLET_SEED"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	c.PackageID = strings.TrimSpace(c.PackageID)
	if c.PackageID == "" {
		return ErrMissingPackageID
	}
	switch c.SettlementPolicy {
	case PolicyOptimistic, PolicyConfirmed:
	default:
		return fmt.Errorf("unknown settlement policy %q", c.SettlementPolicy)
	}
	if c.RPCURL == "" {
		if _, ok := networkURLs[c.Network]; !ok {
			return fmt.Errorf("unknown network %q and no RPC_URL set", c.Network)
		}
	}
	if c.FlipDuration < 0 {
		return fmt.Errorf("FLIP_DURATION must not be negative, got %s", c.FlipDuration)
	}
	return nil
}

// EntryAmountConfigured reports whether a stake is set.
func (c Config) EntryAmountConfigured() bool {
	return c.EntryAmount > 0
}

// Endpoint returns the RPC endpoint, preferring an explicit RPC_URL.
func (c Config) Endpoint() string {
	if c.RPCURL != "" {
		return c.RPCURL
	}
	return networkURLs[c.Network]
}

// ChainID returns the wallet-standard chain identifier, e.g. "sui:testnet".
func (c Config) ChainID() string {
	return "sui:" + c.Network
}

var networkURLs = map[string]string{
	"testnet":  "https://rpc-testnet.onelabs.cc:443",
	"devnet":   "https://rpc-devnet.onelabs.cc:443",
	"mainnet":  "https://rpc-mainnet.onelabs.cc:443",
	"localnet": "http://127.0.0.1:9000",
}

// Networks lists the networks with a built-in endpoint.
func Networks() []string {
	return []string{"testnet", "devnet", "mainnet", "localnet"}
}
