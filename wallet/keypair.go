package wallet

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/luca-patrignani/coin-flip/chain"
	"github.com/luca-patrignani/coin-flip/escrow"
)

// ErrNotConnected is returned by SignAndExecute on a disconnected wallet.
var ErrNotConnected = errors.New("wallet not connected")

// ed25519Flag is the signature scheme byte prepended to signatures and to
// the public key when deriving the address.
const ed25519Flag byte = 0x00

// transactionIntentScope prefixes the bytes that get signed.
var transactionIntentScope = []byte{0, 0, 0}

// Submitter executes signed transaction bytes.
type Submitter interface {
	ExecuteTransactionBlock(ctx context.Context, txBytes []byte, signatures []string) (*chain.TransactionResult, error)
}

// TransactionData is what the wallet encodes and signs for one intent.
type TransactionData struct {
	Sender    string        `json:"sender"`
	GasBudget uint64        `json:"gas_budget"`
	Chain     string        `json:"chain,omitempty"`
	Intent    escrow.Intent `json:"intent"`
}

// Keypair is an ed25519 wallet that starts disconnected.
type Keypair struct {
	mu        sync.RWMutex
	connected bool

	priv      ed25519.PrivateKey
	pub       ed25519.PublicKey
	address   string
	submitter Submitter
	settings  settings
}

type settings struct {
	gasBudget uint64
	chainID   string
}

type keypairOption func(settings) settings

// WithGasBudget sets the gas budget attached to every transaction.
func WithGasBudget(budget uint64) keypairOption {
	return func(s settings) settings {
		s.gasBudget = budget
		return s
	}
}

// WithChain sets the wallet-standard chain identifier, e.g. "sui:testnet".
func WithChain(id string) keypairOption {
	return func(s settings) settings {
		s.chainID = id
		return s
	}
}

// NewKeypair builds a wallet from a 32 byte ed25519 seed.
func NewKeypair(seed []byte, submitter Submitter, opts ...keypairOption) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	var s settings
	for _, opt := range opts {
		s = opt(s)
	}
	return &Keypair{
		priv:      priv,
		pub:       pub,
		address:   DeriveAddress(pub),
		submitter: submitter,
		settings:  s,
	}, nil
}

// GenerateKeypair builds a wallet from a fresh random seed.
func GenerateKeypair(submitter Submitter, opts ...keypairOption) (*Keypair, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, err
	}
	return NewKeypair(seed, submitter, opts...)
}

// ParseSeed decodes a hex seed, with or without 0x prefix.
func ParseSeed(s string) ([]byte, error) {
	seed, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return seed, nil
}

// DeriveAddress returns 0x + hex(blake2b-256(flag || pubkey)).
func DeriveAddress(pub ed25519.PublicKey) string {
	sum := blake2b.Sum256(append([]byte{ed25519Flag}, pub...))
	return "0x" + hex.EncodeToString(sum[:])
}

// Connect marks the wallet as connected.
func (k *Keypair) Connect() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.connected = true
}

// Disconnect marks the wallet as disconnected.
func (k *Keypair) Disconnect() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.connected = false
}

// Connected reports the connection state.
func (k *Keypair) Connected() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.connected
}

// Address returns the account address; ok is false while disconnected.
func (k *Keypair) Address() (string, bool) {
	if !k.Connected() {
		return "", false
	}
	return k.address, true
}

// PublicKey returns the wallet public key.
func (k *Keypair) PublicKey() ed25519.PublicKey {
	return k.pub
}

// Encode serialises the transaction data for intent.
func (k *Keypair) Encode(intent escrow.Intent) ([]byte, error) {
	return json.Marshal(TransactionData{
		Sender:    k.address,
		GasBudget: k.settings.gasBudget,
		Chain:     k.settings.chainID,
		Intent:    intent,
	})
}

// Sign returns the base64 serialised signature (flag || sig || pubkey).
func (k *Keypair) Sign(txBytes []byte) string {
	digest := signingDigest(txBytes)
	sig := ed25519.Sign(k.priv, digest[:])
	serialized := make([]byte, 0, 1+len(sig)+len(k.pub))
	serialized = append(serialized, ed25519Flag)
	serialized = append(serialized, sig...)
	serialized = append(serialized, k.pub...)
	return base64.StdEncoding.EncodeToString(serialized)
}

// SignAndExecute encodes, signs and submits intent.
func (k *Keypair) SignAndExecute(ctx context.Context, intent escrow.Intent) (*chain.TransactionResult, error) {
	if !k.Connected() {
		return nil, ErrNotConnected
	}
	txBytes, err := k.Encode(intent)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", intent.Function, err)
	}
	return k.submitter.ExecuteTransactionBlock(ctx, txBytes, []string{k.Sign(txBytes)})
}

// Verify checks a serialised signature against txBytes and returns the
// signer address.
func Verify(txBytes []byte, signature string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}
	if len(raw) != 1+ed25519.SignatureSize+ed25519.PublicKeySize {
		return "", fmt.Errorf("signature has %d bytes", len(raw))
	}
	if raw[0] != ed25519Flag {
		return "", fmt.Errorf("unsupported signature scheme %#x", raw[0])
	}
	sig := raw[1 : 1+ed25519.SignatureSize]
	pub := ed25519.PublicKey(raw[1+ed25519.SignatureSize:])
	digest := signingDigest(txBytes)
	if !ed25519.Verify(pub, digest[:], sig) {
		return "", errors.New("invalid signature")
	}
	return DeriveAddress(pub), nil
}

func signingDigest(txBytes []byte) [32]byte {
	msg := make([]byte, 0, len(transactionIntentScope)+len(txBytes))
	msg = append(msg, transactionIntentScope...)
	msg = append(msg, txBytes...)
	return blake2b.Sum256(msg)
}
