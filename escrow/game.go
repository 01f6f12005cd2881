package escrow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/luca-patrignani/coin-flip/chain"
)

// ErrGameNotFound is returned by ReadGame when the node has no such object.
var ErrGameNotFound = errors.New("game escrow not found")

// ObjectReader is the part of the chain client ReadGame needs.
type ObjectReader interface {
	GetObject(ctx context.Context, id string, opts chain.ObjectOptions) (*chain.ObjectState, error)
}

// Game is a read-only snapshot of an escrow object. The chain owns the
// authoritative state; the fields are whatever the contract stores.
type Game struct {
	ID      string
	Type    string
	Version string
	Fields  map[string]json.RawMessage
}

// Field decodes a single content field into v.
func (g Game) Field(name string, v any) error {
	raw, ok := g.Fields[name]
	if !ok {
		return fmt.Errorf("field %q not present", name)
	}
	return json.Unmarshal(raw, v)
}

// ReadGame fetches the escrow object with its content.
func ReadGame(ctx context.Context, reader ObjectReader, id string) (Game, error) {
	state, err := reader.GetObject(ctx, id, chain.ObjectOptions{ShowType: true, ShowContent: true})
	if err != nil {
		return Game{}, err
	}
	if state.Error != nil || state.Data == nil {
		return Game{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	g := Game{
		ID:      state.Data.ObjectID,
		Type:    state.Data.Type,
		Version: state.Data.Version,
	}
	if c := state.Data.Content; c != nil {
		if g.Type == "" {
			g.Type = c.Type
		}
		g.Fields = c.Fields
	}
	return g, nil
}
