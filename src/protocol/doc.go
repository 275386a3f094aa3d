// Package protocol selects and represents the consensus protocol family a
// solas node runs.
//
// The rest of the node is protocol-agnostic: it only sees the Protocol
// interface, which exposes a name, a block-type tag and the ledger
// configuration. Three families exist: the original "boreal" era, the
// "cascade" era that replaced it, and the "composite" protocol which spans
// both eras and is what production networks run.
//
// The package also limits the advertised network protocol versions to the
// latest released set, unless experimental versions are explicitly enabled.
package protocol
