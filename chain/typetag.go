package chain

import (
	"fmt"
	"strings"
)

// TypeTag identifies a Move struct type. Generic parameters are not kept.
type TypeTag struct {
	Address string
	Module  string
	Name    string
}

// ParseTypeTag parses "address::module::Name" with optional "<...>" params.
func ParseTypeTag(s string) (TypeTag, error) {
	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(strings.TrimSpace(s), "::")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return TypeTag{}, fmt.Errorf("malformed move type %q", s)
	}
	addr, err := NormalizeAddress(parts[0])
	if err != nil {
		return TypeTag{}, err
	}
	return TypeTag{Address: addr, Module: parts[1], Name: parts[2]}, nil
}

func (t TypeTag) String() string {
	return t.Address + "::" + t.Module + "::" + t.Name
}

// Matches reports whether a node-reported object type names the same struct.
func (t TypeTag) Matches(objectType string) bool {
	other, err := ParseTypeTag(objectType)
	if err != nil {
		return false
	}
	return other == t
}

// NormalizeAddress lowercases a hex address, adds the 0x prefix and drops
// leading zeros so that "0x0002" and "0x2" compare equal.
func NormalizeAddress(addr string) (string, error) {
	a := strings.ToLower(strings.TrimSpace(addr))
	a = strings.TrimPrefix(a, "0x")
	if a == "" {
		return "", fmt.Errorf("empty address")
	}
	if len(a) > 64 {
		return "", fmt.Errorf("address %q longer than 32 bytes", addr)
	}
	for _, c := range a {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("address %q is not hex", addr)
		}
	}
	a = strings.TrimLeft(a, "0")
	if a == "" {
		a = "0"
	}
	return "0x" + a, nil
}
