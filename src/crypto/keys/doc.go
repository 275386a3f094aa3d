// Package keys manages the key material a solas node needs to operate.
//
// Every node owns a secp256k1 key-pair that identifies it on the network. A
// block-producing node additionally references a VRF signing key used by the
// leadership schedule of the consensus protocol. The VRF key itself is opaque
// to this package; what matters here is that the file holding it is not
// readable by anyone other than the owner, which is enforced by
// CheckKeyFilePermissions before the node starts forging.
package keys
