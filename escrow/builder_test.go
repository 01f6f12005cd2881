package escrow

import (
	"reflect"
	"testing"
)

func mustBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder("0x2a")
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	return b
}

func TestNewBuilderRejectsBadPackage(t *testing.T) {
	for _, id := range []string{"", "0x", "not-hex"} {
		if _, err := NewBuilder(id); err == nil {
			t.Fatalf("expected error for package id %q", id)
		}
	}
}

func TestBuildCreate(t *testing.T) {
	intent := mustBuilder(t).BuildCreate(1000)

	if intent.Target() != "0x2a::escrow::create_game" {
		t.Fatalf("unexpected target %s", intent.Target())
	}
	if intent.SplitAmount != 1000 {
		t.Fatalf("expected split of 1000, got %d", intent.SplitAmount)
	}
	want := []Arg{{Kind: ArgSplitCoin}, {Kind: ArgU64, U64: 1000}}
	if !reflect.DeepEqual(intent.Args, want) {
		t.Fatalf("unexpected args %+v", intent.Args)
	}
}

func TestBuildJoin(t *testing.T) {
	intent := mustBuilder(t).BuildJoin("0xgame", 1000)

	if intent.Function != FunctionJoin {
		t.Fatalf("unexpected function %s", intent.Function)
	}
	if intent.SplitAmount != 1000 {
		t.Fatalf("expected split of 1000, got %d", intent.SplitAmount)
	}
	want := []Arg{{Kind: ArgObject, Object: "0xgame"}, {Kind: ArgSplitCoin}}
	if !reflect.DeepEqual(intent.Args, want) {
		t.Fatalf("unexpected args %+v", intent.Args)
	}
}

func TestBuildFinish(t *testing.T) {
	intent := mustBuilder(t).BuildFinish("0xgame", "0xwinner")

	if intent.Function != FunctionFinish {
		t.Fatalf("unexpected function %s", intent.Function)
	}
	if intent.SplitAmount != 0 {
		t.Fatalf("finish must not split a coin, got %d", intent.SplitAmount)
	}
	want := []Arg{{Kind: ArgObject, Object: "0xgame"}, {Kind: ArgAddress, Address: "0xwinner"}}
	if !reflect.DeepEqual(intent.Args, want) {
		t.Fatalf("unexpected args %+v", intent.Args)
	}
}

func TestEscrowType(t *testing.T) {
	tag := mustBuilder(t).EscrowType()
	if tag.String() != "0x2a::escrow::GameEscrow" {
		t.Fatalf("unexpected escrow type %s", tag)
	}
	if !tag.Matches("0x000000000000000000000000000000000000000000000000000000000000002a::escrow::GameEscrow") {
		t.Fatal("expected padded address to match")
	}
}
