// Package ledger implements the token ledger state machine: the
// authoritative mapping from token id to owner, the approval
// relations, the supply counters, and the pause gate.
//
// Every mutating operation validates all of its preconditions before
// touching any state, so a failed operation never leaves a partial
// mutation behind. A single mutex serializes mutations; queries read
// through concurrent-safe indexes.
package ledger
