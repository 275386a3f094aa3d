package topology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// RelayAccessPoint locates a relay by DNS name or literal IP address, plus
// port. It is comparable and used as a map key in local-root groups.
type RelayAccessPoint struct {
	Address string `json:"address"`
	Port    uint16 `json:"port"`
}

// String ...
func (r RelayAccessPoint) String() string {
	return net.JoinHostPort(r.Address, strconv.Itoa(int(r.Port)))
}

// MarshalText encodes the access point as "address:port" so that it can be
// used as a JSON object key.
func (r RelayAccessPoint) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes the "address:port" form produced by MarshalText.
func (r *RelayAccessPoint) UnmarshalText(text []byte) error {
	host, portStr, err := net.SplitHostPort(string(text))
	if err != nil {
		return err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return fmt.Errorf("relay access point %q: %v", text, err)
	}
	r.Address = host
	r.Port = uint16(port)
	return nil
}

// UnmarshalJSON accepts either the object form used by topology files,
// {"address": ..., "port": ...}, or the "address:port" string form. Without
// this, encoding/json would route every JSON value through UnmarshalText and
// reject the object form.
func (r *RelayAccessPoint) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return r.UnmarshalText([]byte(s))
	}

	var plain struct {
		Address string `json:"address"`
		Port    uint16 `json:"port"`
	}
	if err := json.Unmarshal(data, &plain); err != nil {
		return err
	}
	r.Address = plain.Address
	r.Port = plain.Port
	return nil
}

// IsLiteralIP reports whether the access point's address is a literal IP
// rather than a DNS name.
func (r RelayAccessPoint) IsLiteralIP() bool {
	return net.ParseIP(r.Address) != nil
}

// PeerAdvertise says whether a peer may be advertised to other peers through
// peer sharing.
type PeerAdvertise bool

const (
	// DoAdvertisePeer ...
	DoAdvertisePeer PeerAdvertise = true
	// DoNotAdvertisePeer ...
	DoNotAdvertisePeer PeerAdvertise = false
)

// LocalRootGroup is a set of peers the diffusion layer must maintain at least
// Valency connections to. The topology source guarantees that Valency does
// not exceed the number of peers in the group; this is not re-validated here.
type LocalRootGroup struct {
	Valency int                                `json:"valency"`
	Peers   map[RelayAccessPoint]PeerAdvertise `json:"peers"`
}

// UseLedgerAfter is the slot after which ledger-derived peers may be used for
// peer discovery. The sentinel DontUseLedger disables them entirely.
type UseLedgerAfter int64

// DontUseLedger disables ledger-derived peers.
const DontUseLedger UseLedgerAfter = -1

// String ...
func (u UseLedgerAfter) String() string {
	if u < 0 {
		return "never"
	}
	if u == 0 {
		return "always"
	}
	return fmt.Sprintf("after slot %d", int64(u))
}

// UnmarshalJSON accepts a slot number, or the aliases "always" (slot 0) and
// "never" (ledger peers disabled).
func (u *UseLedgerAfter) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(s) {
		case "always":
			*u = 0
		case "never":
			*u = DontUseLedger
		default:
			return fmt.Errorf("useLedgerAfterSlot: unknown alias %q", s)
		}
		return nil
	}

	var slot int64
	if err := json.Unmarshal(data, &slot); err != nil {
		return err
	}
	if slot < 0 {
		*u = DontUseLedger
	} else {
		*u = UseLedgerAfter(slot)
	}
	return nil
}

// MarshalJSON ...
func (u UseLedgerAfter) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(u))
}

// p2pRootGroup is the on-disk shape of one localRoots or publicRoots entry.
type p2pRootGroup struct {
	AccessPoints []RelayAccessPoint `json:"accessPoints"`
	Advertise    bool               `json:"advertise"`
	Valency      int                `json:"valency"`
}

// p2pDocument is the on-disk shape of a peer-to-peer topology file.
type p2pDocument struct {
	LocalRoots         []p2pRootGroup `json:"localRoots"`
	PublicRoots        []p2pRootGroup `json:"publicRoots"`
	UseLedgerAfterSlot UseLedgerAfter `json:"useLedgerAfterSlot"`
}

// Snapshot is one atomically-committed generation of live topology state. It
// is immutable once published; readers share it without synchronization.
type Snapshot struct {
	Generation     uint64
	LocalRoots     []LocalRootGroup
	PublicRoots    []RelayAccessPoint
	UseLedgerAfter UseLedgerAfter
}

// ReadP2PSnapshot reads and parses a peer-to-peer topology file and
// decomposes it into a Snapshot with generation 0.
func ReadP2PSnapshot(path string) (*Snapshot, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc p2pDocument
	dec := json.NewDecoder(bytes.NewReader(buf))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %v", path, err)
	}

	return decompose(&doc), nil
}

// decompose turns a parsed document into a Snapshot. Local-root groups keep
// their declared valency and map each member to the group's advertise policy;
// duplicate access points within one group collapse to a single entry, last
// write wins. Public-root groups are flattened into one ordered sequence,
// preserving declaration order, without deduplication.
func decompose(doc *p2pDocument) *Snapshot {
	localRoots := make([]LocalRootGroup, 0, len(doc.LocalRoots))
	for _, group := range doc.LocalRoots {
		peers := make(map[RelayAccessPoint]PeerAdvertise, len(group.AccessPoints))
		for _, rap := range group.AccessPoints {
			peers[rap] = PeerAdvertise(group.Advertise)
		}
		localRoots = append(localRoots, LocalRootGroup{
			Valency: group.Valency,
			Peers:   peers,
		})
	}

	var publicRoots []RelayAccessPoint
	for _, group := range doc.PublicRoots {
		publicRoots = append(publicRoots, group.AccessPoints...)
	}

	return &Snapshot{
		LocalRoots:     localRoots,
		PublicRoots:    publicRoots,
		UseLedgerAfter: doc.UseLedgerAfterSlot,
	}
}
