// Package service provides the application services for MintVault.
//
// RegistryService is the single entry point for collection operations.
// It drives the in-memory ledger, writes every accepted mutation
// through to the ledger store, and fans the resulting event out to the
// bus and the archive. All request validation happens here so that
// transports (HTTP, CLI) stay thin.
package service
