// Package handler provides HTTP request handlers for MintVault.
//
// It implements the HTTP API endpoints for the token registry: minting,
// transfers, approvals, burning, collection queries, the event stream,
// and administrative operations. Responses use a standard JSON envelope
// with a structured error code; the code, not the message, is the
// stable contract.
package handler
