package diffusion

import (
	"net"
	"time"
)

// Mode says whether the diffusion layer accepts inbound connections.
type Mode uint8

const (
	// InitiatorAndResponder is the full-node mode: the node both dials and
	// accepts connections.
	InitiatorAndResponder Mode = iota
	// InitiatorOnly restricts the node to outbound connections. Block
	// producers hidden behind relays run in this mode.
	InitiatorOnly
)

// String ...
func (m Mode) String() string {
	if m == InitiatorOnly {
		return "InitiatorOnly"
	}
	return "InitiatorAndResponder"
}

// Operational connection limits. These are policy constants of the node, not
// user-configurable: they bound resource usage when many peers connect at
// once.
const (
	// HardConnectionLimit is the absolute cap on concurrent connections.
	HardConnectionLimit uint32 = 512
	// SoftConnectionLimit is the level above which new connections are
	// delayed before being admitted.
	SoftConnectionLimit uint32 = 384
	// AdmissionDelay is how long a new connection waits when the soft limit
	// is exceeded.
	AdmissionDelay = 5 * time.Second
)

// AcceptedConnectionsLimit bundles the admission-control parameters handed to
// the diffusion engine.
type AcceptedConnectionsLimit struct {
	HardLimit uint32
	SoftLimit uint32
	Delay     time.Duration
}

// Binding is a TCP endpoint the diffusion layer serves on: either a socket
// that is already bound, or an address the engine binds lazily. Exactly one
// of the two fields is set.
type Binding struct {
	Socket  *net.TCPListener
	Address *net.TCPAddr
}

// LocalBinding is the intra-host endpoint serving local clients: either an
// already-bound unix socket or a path to bind lazily.
type LocalBinding struct {
	Socket *net.UnixListener
	Path   string
}

// Arguments holds the diffusion-layer startup arguments common to both
// topology modes. It is immutable once constructed.
type Arguments struct {
	// IPv4 and IPv6 are the public endpoints; either may be nil when the
	// corresponding address family is disabled.
	IPv4 *Binding
	IPv6 *Binding

	// Local is the intra-host endpoint; nil when disabled.
	Local *LocalBinding

	Mode Mode

	ConnectionLimits AcceptedConnectionsLimit
}

// NewArguments assembles Arguments from resolved bindings and the configured
// mode. The connection limits are fixed here and nowhere else.
func NewArguments(ipv4, ipv6 *Binding, local *LocalBinding, mode Mode) Arguments {
	return Arguments{
		IPv4:  ipv4,
		IPv6:  ipv6,
		Local: local,
		Mode:  mode,
		ConnectionLimits: AcceptedConnectionsLimit{
			HardLimit: HardConnectionLimit,
			SoftLimit: SoftConnectionLimit,
			Delay:     AdmissionDelay,
		},
	}
}

// ResolveBinding turns an address string into a lazily-bound Binding of the
// given network ("tcp4" or "tcp6"). An empty address yields a nil Binding,
// meaning the endpoint is disabled.
func ResolveBinding(network, address string) (*Binding, error) {
	if address == "" {
		return nil, nil
	}
	addr, err := net.ResolveTCPAddr(network, address)
	if err != nil {
		return nil, err
	}
	return &Binding{Address: addr}, nil
}
