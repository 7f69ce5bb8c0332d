// Package httpserver provides the HTTP/HTTPS server for MintVault.
//
// It exposes the token registry as a RESTful API plus a server-sent
// event stream, with a middleware chain for panic recovery, request
// IDs, per-client rate limiting, CORS, request metrics, and audit
// logging. Caller identity is carried in the X-Caller-Address header;
// authorization itself happens inside the ledger so that the check and
// the mutation are one atomic step.
package httpserver
