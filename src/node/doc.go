// Package node sequences the bootstrap of a solas node.
//
// Init validates the merged configuration, guards the VRF key file of block
// producers, selects the consensus protocol, resolves the listen endpoints
// into diffusion arguments and loads the topology. Run then hands control to
// the diffusion/consensus engine: in peer-to-peer mode with live, SIGHUP
// reloadable topology read handles; in static mode with a fixed producer
// list. Any failure before the run loop starts is fatal; once the run loop is
// up, its failures are its own.
package node
