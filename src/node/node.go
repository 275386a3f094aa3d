package node

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/solasnetworks/solas/src/config"
	"github.com/solasnetworks/solas/src/crypto/keys"
	"github.com/solasnetworks/solas/src/diffusion"
	"github.com/solasnetworks/solas/src/protocol"
	"github.com/solasnetworks/solas/src/service"
	"github.com/solasnetworks/solas/src/topology"
)

// telemetryInterval is how often the connection sampler polls the kernel.
const telemetryInterval = 2 * time.Second

// Node wires the bootstrap components together and hands control to the
// diffusion/consensus run loop.
type Node struct {
	Config   *config.Config
	Protocol protocol.Protocol
	Runner   diffusion.Runner
	Args     diffusion.Arguments
	Service  *service.Service

	// Topology is set in peer-to-peer mode.
	Topology *topology.Reconciler

	// DNSProducers and AddrProducers are set in static mode.
	DNSProducers  []topology.Producer
	AddrProducers []topology.Producer

	logger  *logrus.Entry
	sampler *ConnectionSampler
}

// NewNode returns an uninitialized Node. Call Init before Run.
func NewNode(cfg *config.Config, runner diffusion.Runner) *Node {
	return &Node{
		Config: cfg,
		Runner: runner,
		logger: cfg.Logger(),
	}
}

// Init sequences the bootstrap steps. Any error is fatal: the caller must
// report it and exit non-zero without retrying.
func (n *Node) Init() error {
	if err := n.Config.Validate(); err != nil {
		return err
	}

	if err := n.initKeyGuard(); err != nil {
		return err
	}

	if err := n.initProtocol(); err != nil {
		return err
	}

	if err := n.initDiffusion(); err != nil {
		return err
	}

	if err := n.initTopology(); err != nil {
		return err
	}

	n.initService()

	return nil
}

// initKeyGuard refuses to run a block producer whose VRF key file is
// accessible by anyone other than its owner. The check is read-only.
func (n *Node) initKeyGuard() error {
	if !n.Config.BlockProducer {
		return nil
	}

	if err := keys.CheckKeyFilePermissions(n.Config.VRFKeyFile); err != nil {
		return err
	}

	n.logger.WithField("vrf_key", n.Config.VRFKeyFile).Debug("VRF key file permissions OK")

	return nil
}

func (n *Node) initProtocol() error {
	p, err := protocol.Select(n.Config)
	if err != nil {
		return err
	}

	n.Protocol = p

	n.logger.WithFields(logrus.Fields{
		"protocol":   p.Name(),
		"block_type": p.BlockType(),
	}).Debug("Protocol selected")

	return nil
}

func (n *Node) initDiffusion() error {
	ipv4, err := diffusion.ResolveBinding("tcp4", n.Config.BindAddrIPv4)
	if err != nil {
		return fmt.Errorf("resolving listen address: %v", err)
	}

	ipv6, err := diffusion.ResolveBinding("tcp6", n.Config.BindAddrIPv6)
	if err != nil {
		return fmt.Errorf("resolving listen-v6 address: %v", err)
	}

	var local *diffusion.LocalBinding
	if n.Config.LocalSocket != "" {
		local = &diffusion.LocalBinding{Path: n.Config.LocalSocket}
	}

	mode := diffusion.InitiatorAndResponder
	if n.Config.InitiatorOnly {
		mode = diffusion.InitiatorOnly
	}

	n.Args = diffusion.NewArguments(ipv4, ipv6, local, mode)

	return nil
}

func (n *Node) initTopology() error {
	if n.Config.EnableP2P {
		n.Topology = topology.NewReconciler(n.Config.TopologyFile, n.logger)
		return n.Topology.Load()
	}

	producers, err := topology.ReadStaticProducers(n.Config.TopologyFile)
	if err != nil {
		return err
	}

	n.DNSProducers, n.AddrProducers = topology.PartitionProducers(producers)

	n.logger.WithFields(logrus.Fields{
		"dns_producers":  len(n.DNSProducers),
		"addr_producers": len(n.AddrProducers),
	}).Info("Static topology loaded")

	return nil
}

func (n *Node) initService() {
	if !n.Config.NoService {
		n.Service = service.NewService(n.Config.ServiceAddr, n.Config, n.Topology, n.logger)
	}
}

// Run starts the HTTP service, installs the SIGHUP reload path in
// peer-to-peer mode, and blocks in the external run loop until it returns.
func (n *Node) Run() error {
	if n.Service != nil {
		go n.Service.Serve()
	}

	extra := diffusion.ExtraArguments{
		NodeToNodeVersions: protocol.LimitNodeToNodeVersions(
			n.Config.ExperimentalVersions, protocol.SupportedNodeToNodeVersions()),
		NodeToClientVersions: protocol.LimitNodeToClientVersions(
			n.Config.ExperimentalVersions, protocol.SupportedNodeToClientVersions()),
		MaxConcurrencyBulkSync: n.Config.MaxConcurrencyBulkSync,
		MaxConcurrencyDeadline: n.Config.MaxConcurrencyDeadline,
		DatabaseDir:            n.Config.DatabaseDir,
		ValidateDB:             n.Config.ValidateDB,
		SnapshotInterval:       n.Config.SnapshotInterval,
		Tracer:                 n.logger.WithField("component", "diffusion"),
		OnKernel:               n.startTelemetry,
	}

	if n.Config.EnableP2P {
		n.Topology.Watch()
		defer n.Topology.Stop()

		extra.Live = n.Topology
	} else {
		extra.DNSProducers = n.DNSProducers
		extra.AddrProducers = n.AddrProducers
	}

	defer func() {
		if n.sampler != nil {
			n.sampler.Stop()
		}
	}()

	return n.Runner.Run(n.Args, extra)
}

// startTelemetry is the kernel hook: once the engine's kernel exists, start
// sampling its connection state in the background.
func (n *Node) startTelemetry(kernel diffusion.Kernel) {
	n.sampler = NewConnectionSampler(kernel, telemetryInterval, n.logger)
	n.sampler.Start()
}
