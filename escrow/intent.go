package escrow

import "fmt"

// ArgKind is the kind of a move-call argument.
type ArgKind string

const (
	// ArgSplitCoin refers to the coin split from the gas object for the stake.
	ArgSplitCoin ArgKind = "split_coin"
	ArgU64       ArgKind = "u64"
	ArgAddress   ArgKind = "address"
	ArgObject    ArgKind = "object"
)

// Arg is one ordered argument of a move call.
type Arg struct {
	Kind    ArgKind `json:"kind"`
	U64     uint64  `json:"u64,omitempty"`
	Address string  `json:"address,omitempty"`
	Object  string  `json:"object,omitempty"`
}

// Intent is an unsigned description of one call into the escrow contract.
// SplitAmount, when non zero, is split from the gas coin before the call and
// passed wherever an ArgSplitCoin argument appears.
type Intent struct {
	Package     string `json:"package"`
	Module      string `json:"module"`
	Function    string `json:"function"`
	SplitAmount uint64 `json:"split_amount,omitempty"`
	Args        []Arg  `json:"args"`
}

// Target is the fully qualified function, "package::module::function".
func (i Intent) Target() string {
	return fmt.Sprintf("%s::%s::%s", i.Package, i.Module, i.Function)
}

func u64Arg(v uint64) Arg { return Arg{Kind: ArgU64, U64: v} }
func addressArg(a string) Arg { return Arg{Kind: ArgAddress, Address: a} }
func objectArg(id string) Arg { return Arg{Kind: ArgObject, Object: id} }
func splitCoinArg() Arg { return Arg{Kind: ArgSplitCoin} }
