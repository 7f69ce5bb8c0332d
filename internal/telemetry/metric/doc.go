// Package metric provides Prometheus metrics for MintVault.
//
// All metrics live in one Registry so the server can expose them from
// a single /metrics endpoint and tests can scrape a private registry
// without cross-test interference.
package metric
