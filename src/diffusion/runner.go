package diffusion

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/solasnetworks/solas/src/protocol"
	"github.com/solasnetworks/solas/src/topology"
)

// LiveTopology is the read handle the diffusion engine holds into the live
// topology state. All three accessors are backed by the same atomic cell:
// they never block and never return components of different generations when
// read through Current-style snapshots on the provider side.
type LiveTopology interface {
	LocalRoots() []topology.LocalRootGroup
	PublicRoots() []topology.RelayAccessPoint
	UseLedgerAfter() topology.UseLedgerAfter
}

// ExtraArguments carries the mode-specific and pass-through arguments of the
// run loop. Exactly one of Live (p2p mode) or the producer lists (static
// mode) is populated.
type ExtraArguments struct {
	// Live is the topology read handle in peer-to-peer mode.
	Live LiveTopology

	// DNSProducers and AddrProducers are the fixed targets in static mode.
	DNSProducers  []topology.Producer
	AddrProducers []topology.Producer

	// Advertised network protocol versions, already limited to the released
	// set unless experimental versions were enabled.
	NodeToNodeVersions   map[protocol.VersionNumber]struct{}
	NodeToClientVersions map[protocol.VersionNumber]struct{}

	// Concurrency limits for block fetching.
	MaxConcurrencyBulkSync uint
	MaxConcurrencyDeadline uint

	// Chain database location and validation override, forwarded untouched.
	DatabaseDir string
	ValidateDB  bool

	// SnapshotInterval is the number of slots between ledger snapshots.
	SnapshotInterval uint64

	// Tracer receives the engine's structured output.
	Tracer *logrus.Entry

	// OnKernel is invoked once the engine's internal kernel is constructed,
	// before networking starts. May be nil.
	OnKernel func(Kernel)
}

// Kernel is the slice of the engine's internals exposed to the hook and to
// telemetry: just enough to observe peer-connection state.
type Kernel interface {
	ConnectionCount() int
}

// Runner is the entry point of the external diffusion/consensus engine. Run
// blocks for the lifetime of the node; once it has started, failure and retry
// semantics belong to the engine, not to the bootstrap core.
type Runner interface {
	Run(args Arguments, extra ExtraArguments) error
}

// StandaloneRunner is a built-in Runner that stands in for the real engine.
// It starts no networking: it invokes the kernel hook, then blocks until the
// process is interrupted. Useful for exercising the bootstrap sequence and
// the live topology reload path without a diffusion engine attached.
type StandaloneRunner struct {
	logger   *logrus.Entry
	sigintCh chan os.Signal
}

// NewStandaloneRunner ...
func NewStandaloneRunner(logger *logrus.Entry) *StandaloneRunner {
	sigintCh := make(chan os.Signal, 1)
	signal.Notify(sigintCh, os.Interrupt, syscall.SIGINT)

	return &StandaloneRunner{
		logger:   logger.WithField("component", "standalone"),
		sigintCh: sigintCh,
	}
}

// ConnectionCount implements Kernel. A standalone node has no connections.
func (s *StandaloneRunner) ConnectionCount() int {
	return 0
}

// Run implements Runner.
func (s *StandaloneRunner) Run(args Arguments, extra ExtraArguments) error {
	s.logger.WithFields(logrus.Fields{
		"mode":       args.Mode,
		"hard_limit": args.ConnectionLimits.HardLimit,
		"soft_limit": args.ConnectionLimits.SoftLimit,
	}).Info("Standalone run loop started")

	if extra.OnKernel != nil {
		extra.OnKernel(s)
	}

	<-s.sigintCh
	signal.Stop(s.sigintCh)

	s.logger.Info("Standalone run loop stopped")

	return nil
}
