// Package cmap provides a concurrent-safe sharded map.
//
// Sharding spreads keys over independently locked buckets to reduce
// contention under mixed read/write load. Shard selection hashes the
// key with murmur3.
package cmap
