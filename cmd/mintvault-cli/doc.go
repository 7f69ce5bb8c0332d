// Package main provides the entry point for mintvault-cli.
//
// mintvault-cli is the command-line management tool for a running
// mintvault-server.
package main
