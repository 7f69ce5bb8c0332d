// Package domain defines the core domain models for MintVault:
// account addresses, tokens, the collection configuration, ledger
// notification events, and the structured error taxonomy shared by
// every layer above.
package domain
