// Package snapshot provides sealed state snapshots for MintVault.
//
// A snapshot is a full dump of the ledger state, written for offline
// backup and disaster recovery. The primary store (Badger) remains the
// recovery source on normal restarts; snapshots cover the case where
// the store directory itself is lost.
//
// File format:
//
//	snapshot-<timestamp>-<sequence>.snap
//	[magic:8 "MVLTSNAP"]
//	[HeaderLen:4][HeaderJSON:HeaderLen]
//	[DataLen:4][Data:DataLen]   (JSON state, or sealed bytes)
//	[checksum:32 SHA-256 of all bytes above]
package snapshot
