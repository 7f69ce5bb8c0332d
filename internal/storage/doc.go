// Package storage provides the persistence layer for MintVault.
//
// The layer has two halves: KVEngine, a thin abstraction over an
// embedded key-value store (Badger), and LedgerStore, the typed record
// mapping that the registry service writes through. The ledger store
// persists one record per token, one per operator grant, and a small
// set of collection metadata keys, and can reconstruct the full
// in-memory state on startup.
package storage
