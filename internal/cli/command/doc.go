// Package command provides CLI command definitions for mintvault-cli.
//
// It uses urfave/cli/v2 for command parsing. Every command talks to a
// running mintvault-server over its HTTP API; the caller identity for
// mutations comes from the --caller flag or MINTVAULT_CALLER.
package command
