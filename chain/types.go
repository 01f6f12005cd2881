package chain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ChangeKind is the kind of an object change reported by the node.
type ChangeKind string

const (
	ChangeCreated     ChangeKind = "created"
	ChangeMutated     ChangeKind = "mutated"
	ChangeDeleted     ChangeKind = "deleted"
	ChangeWrapped     ChangeKind = "wrapped"
	ChangePublished   ChangeKind = "published"
	ChangeTransferred ChangeKind = "transferred"
)

// ObjectChange is a single created/mutated/deleted object in a transaction.
type ObjectChange struct {
	Type       ChangeKind      `json:"type"`
	Sender     string          `json:"sender,omitempty"`
	Owner      json.RawMessage `json:"owner,omitempty"`
	ObjectType string          `json:"objectType,omitempty"`
	ObjectID   string          `json:"objectId,omitempty"`
	Version    string          `json:"version,omitempty"`
	Digest     string          `json:"digest,omitempty"`
}

// ExecutionStatus is the status block of transaction effects.
type ExecutionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Effects holds the parts of the transaction effects the client reads.
type Effects struct {
	Status ExecutionStatus `json:"status"`
}

// TransactionResult is the node response to sui_executeTransactionBlock.
type TransactionResult struct {
	Digest        string          `json:"digest"`
	Effects       *Effects        `json:"effects,omitempty"`
	RawEffects    json.RawMessage `json:"rawEffects,omitempty"`
	ObjectChanges []ObjectChange  `json:"objectChanges,omitempty"`
	Errors        []string        `json:"errors,omitempty"`
}

// ErrExecutionFailed is wrapped by TransactionResult.Err.
var ErrExecutionFailed = errors.New("transaction execution failed")

// Err reports a failed execution. Missing effects are not a failure: the
// node only returns them when asked.
func (r *TransactionResult) Err() error {
	if r == nil {
		return fmt.Errorf("%w: empty result", ErrExecutionFailed)
	}
	if len(r.Errors) > 0 {
		return fmt.Errorf("%w: %s", ErrExecutionFailed, strings.Join(r.Errors, "; "))
	}
	if r.Effects != nil && r.Effects.Status.Status != "" && r.Effects.Status.Status != "success" {
		return fmt.Errorf("%w: %s (%s)", ErrExecutionFailed, r.Effects.Status.Status, r.Effects.Status.Error)
	}
	return nil
}

// ObjectOptions selects the parts of an object returned by GetObject.
type ObjectOptions struct {
	ShowType    bool `json:"showType"`
	ShowOwner   bool `json:"showOwner"`
	ShowContent bool `json:"showContent"`
}

// MoveContent is the parsed Move content of an object.
type MoveContent struct {
	DataType          string                     `json:"dataType"`
	Type              string                     `json:"type"`
	HasPublicTransfer bool                       `json:"hasPublicTransfer"`
	Fields            map[string]json.RawMessage `json:"fields"`
}

// ObjectData is the data part of sui_getObject.
type ObjectData struct {
	ObjectID string          `json:"objectId"`
	Version  string          `json:"version"`
	Digest   string          `json:"digest"`
	Type     string          `json:"type,omitempty"`
	Owner    json.RawMessage `json:"owner,omitempty"`
	Content  *MoveContent    `json:"content,omitempty"`
}

// ObjectError is returned by the node in place of data, e.g. "notExists".
type ObjectError struct {
	Code     string `json:"code"`
	ObjectID string `json:"object_id,omitempty"`
}

// ObjectState is the node response to sui_getObject.
type ObjectState struct {
	Data  *ObjectData  `json:"data,omitempty"`
	Error *ObjectError `json:"error,omitempty"`
}
