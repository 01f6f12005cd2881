package flip

import "fmt"

// Outcome is the result of a round from the player's point of view.
type Outcome uint8

const (
	None Outcome = iota
	Win
	Lose
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Lose:
		return "lose"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(b []byte) error {
	switch string(b) {
	case "win":
		*o = Win
	case "lose":
		*o = Lose
	case "none", "":
		*o = None
	default:
		return fmt.Errorf("unknown outcome %q", b)
	}
	return nil
}
