// Package connection provides the HTTP client for mintvault-cli.
//
// All server responses arrive in the standard envelope; the client
// unwraps the data payload and turns error envelopes into Go errors
// carrying the server's error code.
package connection
