// Package config defines the server configuration structure.
//
// Values load in layers: built-in defaults, then the YAML file, then
// MINTVAULT_-prefixed environment variables. Verify runs after loading
// and rejects configurations the server could not safely start with.
package config
