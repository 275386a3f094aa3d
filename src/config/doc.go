// Package config defines the configuration for a solas node.
//
// Regardless of how the node is started, directly from Go code or as a
// standalone process from the command line, it uses the Config object defined
// in this package to store and forward configuration options. Options are
// merged from three sources with last-wins semantics: built-in defaults,
// overridden by a solas.toml (.json, .yaml also work) file found in the data
// directory, overridden by command-line flags. On top of these options, the
// node relies on a data directory, defined by Config.DataDir, where it expects
// to find a few additional files:
//
//	priv_key      // a plain text file containing the raw network key (cf. solas keygen).
//	vrf_key       // (block producers only) the VRF signing key; must be chmod 0600.
//	topology.json // the network topology; live-reloadable with SIGHUP in p2p mode.
//
// A Config is validated once, after merging, and is read-only thereafter.
package config
