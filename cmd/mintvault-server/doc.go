// Package main provides the entry point for mintvault-server.
//
// mintvault-server manages a single NFT collection: an ERC-721 style
// registry of uniquely numbered tokens with minting, transfers,
// approvals, pausing and burn, served over an HTTP API.
package main
