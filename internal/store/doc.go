// Package store resolves the shared on-disk store that the companion and the
// plugin process use to talk to each other: menu settings, per-plugin
// heartbeat records, the store-backed clipboard, metrics, and the companion's
// singleton lock. Writes go through WriteFileAtomic so a reader in the other
// process never observes a half-written file.
package store
