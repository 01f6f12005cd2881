package escrow

import (
	"fmt"

	"github.com/luca-patrignani/coin-flip/chain"
)

const (
	Module     = "escrow"
	StructName = "GameEscrow"

	FunctionCreate = "create_game"
	FunctionJoin   = "join_game"
	FunctionFinish = "finish_game"
)

// Builder produces escrow intents for a published package.
type Builder struct {
	packageID string
	escrow    chain.TypeTag
}

// NewBuilder returns a Builder for the package with the given id.
func NewBuilder(packageID string) (*Builder, error) {
	addr, err := chain.NormalizeAddress(packageID)
	if err != nil {
		return nil, fmt.Errorf("invalid package id: %w", err)
	}
	return &Builder{
		packageID: packageID,
		escrow:    chain.TypeTag{Address: addr, Module: Module, Name: StructName},
	}, nil
}

// EscrowType is the Move type of the objects created by create_game.
func (b *Builder) EscrowType() chain.TypeTag {
	return b.escrow
}

// BuildCreate splits entryAmount from the gas coin and calls
// create_game(coin, entryAmount).
func (b *Builder) BuildCreate(entryAmount uint64) Intent {
	return b.intent(FunctionCreate, entryAmount, splitCoinArg(), u64Arg(entryAmount))
}

// BuildJoin splits a second stake and calls join_game(game, coin).
func (b *Builder) BuildJoin(gameID string, entryAmount uint64) Intent {
	return b.intent(FunctionJoin, entryAmount, objectArg(gameID), splitCoinArg())
}

// BuildFinish calls finish_game(game, winner). No coin is involved.
func (b *Builder) BuildFinish(gameID string, winner string) Intent {
	return b.intent(FunctionFinish, 0, objectArg(gameID), addressArg(winner))
}

func (b *Builder) intent(function string, split uint64, args ...Arg) Intent {
	return Intent{
		Package:     b.packageID,
		Module:      Module,
		Function:    function,
		SplitAmount: split,
		Args:        args,
	}
}
