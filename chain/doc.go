// Package chain is a thin JSON-RPC client for a Sui-compatible full node.
//
// # Core Components
//
// Client: submits signed transaction blocks and fetches object state.
//
// TransactionResult: the node's record of an executed transaction, with its
// effects and object changes.
//
// TypeTag: a parsed Move struct type ("package::module::Name").
//
// # Object-Change Extraction
//
// CreatedObjectID scans the object changes of a TransactionResult for the
// object a transaction created with a given Move type. The scan is order
// independent and ignores unrelated changes such as the gas coin mutation.
package chain
