// Package output provides output formatting for mintvault-cli.
//
// Command results render as an aligned table by default; --output
// switches to JSON or YAML for scripting.
package output
