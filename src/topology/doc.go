// Package topology loads the network topology of a solas node and keeps it
// live-reloadable while the node runs.
//
// Two document shapes exist. In peer-to-peer mode, topology.json declares
// groups of local roots (each with a valency and an advertise policy), groups
// of public roots, and the slot after which ledger-derived peers may be used:
//
//	{
//	  "localRoots": [
//	    {"accessPoints": [{"address": "relay1.example", "port": 3001}],
//	     "advertise": false,
//	     "valency": 2}
//	  ],
//	  "publicRoots": [
//	    {"accessPoints": [{"address": "backbone.example", "port": 3001}],
//	     "advertise": true}
//	  ],
//	  "useLedgerAfterSlot": 0
//	}
//
// In static mode, the file declares a flat list of producers:
//
//	{"Producers": [{"addr": "relay1.example", "port": 3001, "valency": 1}]}
//
// The Reconciler owns the parsed peer-to-peer topology. It decomposes the
// document into a snapshot of (local root groups, public roots, ledger-peer
// threshold) and republishes a whole new snapshot on every successful reload,
// so concurrent readers always observe the three components of a single
// generation. Reloads are triggered by SIGHUP, or by calling Reload directly
// on platforms without signals. A reload that fails to read or parse the file
// leaves the previous generation in place; the node keeps running with its
// old peers.
package topology
