// Package diffusion assembles the startup arguments of the network diffusion
// layer and defines the contract under which the external diffusion/consensus
// engine is run.
//
// The engine itself (peer selection, connection management, message relay)
// lives outside this repository. This package only builds the immutable
// Arguments it is started with, carries the mode-specific ExtraArguments
// (live topology read handles in p2p mode, a fixed producer list in static
// mode), and fixes the connection-admission limits that bound resource usage
// under connection storms.
package diffusion
