package chain

import "errors"

// ErrObjectNotFound is returned when no created object of the wanted type
// is present in a transaction result.
var ErrObjectNotFound = errors.New("created object not found in transaction result")

// CreatedObjectID returns the id of the first object created by the
// transaction whose type matches want.
func CreatedObjectID(result *TransactionResult, want TypeTag) (string, error) {
	if result == nil {
		return "", ErrObjectNotFound
	}
	for _, c := range result.ObjectChanges {
		if c.Type != ChangeCreated || c.ObjectID == "" {
			continue
		}
		if want.Matches(c.ObjectType) {
			return c.ObjectID, nil
		}
	}
	return "", ErrObjectNotFound
}
