package flip

import (
	"crypto/cipher"
	"encoding/hex"
	"fmt"
	"sync"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/sign/schnorr"
	"go.dedis.ch/kyber/v4/suites"
	"go.dedis.ch/kyber/v4/util/random"
)

var suite suites.Suite = suites.MustFind("Ed25519")

const nonceSize = 16

// Receipt records one toss and the session signature over it.
type Receipt struct {
	GameID    string  `json:"game_id"`
	Outcome   Outcome `json:"outcome"`
	Nonce     []byte  `json:"nonce"`
	Signature []byte  `json:"signature"`
}

func (r Receipt) message() []byte {
	return []byte(fmt.Sprintf("%s|%s|%s", r.GameID, r.Outcome, hex.EncodeToString(r.Nonce)))
}

// Coin draws outcomes and signs receipts with a per-session key.
type Coin struct {
	mu     sync.Mutex
	stream cipher.Stream
	priv   kyber.Scalar
	pub    kyber.Point
}

// NewCoin creates a coin with a fresh session key.
func NewCoin() *Coin {
	stream := suite.RandomStream()
	priv := suite.Scalar().Pick(stream)
	return &Coin{
		stream: stream,
		priv:   priv,
		pub:    suite.Point().Mul(priv, nil),
	}
}

// PublicKey is the session key receipts are signed with.
func (c *Coin) PublicKey() kyber.Point {
	return c.pub
}

// Draw returns Win or Lose with equal probability.
func (c *Coin) Draw() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draw()
}

func (c *Coin) draw() Outcome {
	if random.Bits(8, false, c.stream)[0]&1 == 1 {
		return Win
	}
	return Lose
}

// Toss draws an outcome for gameID and signs a receipt for it.
func (c *Coin) Toss(gameID string) (Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := Receipt{
		GameID:  gameID,
		Outcome: c.draw(),
		Nonce:   random.Bits(nonceSize*8, false, c.stream),
	}
	sig, err := schnorr.Sign(suite, c.priv, r.message())
	if err != nil {
		return Receipt{}, fmt.Errorf("sign receipt: %w", err)
	}
	r.Signature = sig
	return r, nil
}

// VerifyReceipt checks a receipt against the session public key.
func VerifyReceipt(pub kyber.Point, r Receipt) error {
	return schnorr.Verify(suite, pub, r.message(), r.Signature)
}
