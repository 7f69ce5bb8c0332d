// Package confloader provides configuration loading for MintVault.
//
// It uses Koanf to merge configuration sources with the priority
// Env > File > Default, and can watch the config file for changes so
// reloadable settings (log level) apply without a restart.
package confloader
