package node

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/solasnetworks/solas/src/config"
	"github.com/solasnetworks/solas/src/crypto/keys"
	"github.com/solasnetworks/solas/src/diffusion"
	"github.com/solasnetworks/solas/src/protocol"
)

// recordingRunner stands in for the diffusion engine: it records what it was
// started with, fires the kernel hook, and returns immediately.
type recordingRunner struct {
	args  diffusion.Arguments
	extra diffusion.ExtraArguments
	ran   bool
}

func (r *recordingRunner) Run(args diffusion.Arguments, extra diffusion.ExtraArguments) error {
	r.args = args
	r.extra = extra
	r.ran = true
	if extra.OnKernel != nil {
		extra.OnKernel(r)
	}
	return nil
}

func (r *recordingRunner) ConnectionCount() int {
	return 3
}

func testNodeConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()

	cfg := config.NewTestConfig(t, logrus.ErrorLevel)
	cfg.SetDataDir(dir)
	cfg.BorealGenesisFile = filepath.Join(dir, "boreal-genesis.json")
	cfg.CascadeGenesisFile = filepath.Join(dir, "cascade-genesis.json")
	cfg.BindAddrIPv4 = "127.0.0.1:3001"
	cfg.NoService = true

	topo := `{
		"localRoots": [
			{"accessPoints": [{"address": "relay.example", "port": 3001}], "advertise": false, "valency": 1}
		],
		"publicRoots": [
			{"accessPoints": [{"address": "backbone.example", "port": 3001}], "advertise": true}
		],
		"useLedgerAfterSlot": 100
	}`
	if err := os.WriteFile(cfg.TopologyFile, []byte(topo), 0644); err != nil {
		t.Fatalf("err: %v", err)
	}

	return cfg
}

func TestBootstrapP2P(t *testing.T) {
	cfg := testNodeConfig(t)

	runner := &recordingRunner{}
	n := NewNode(cfg, runner)

	if err := n.Init(); err != nil {
		t.Fatalf("err: %v", err)
	}

	if n.Protocol == nil || n.Protocol.Name() != "composite" {
		t.Fatalf("unexpected protocol: %v", n.Protocol)
	}
	if n.Topology == nil {
		t.Fatal("p2p mode should build a topology reconciler")
	}

	if err := n.Run(); err != nil {
		t.Fatalf("err: %v", err)
	}

	if !runner.ran {
		t.Fatal("run loop was not started")
	}
	if runner.extra.Live == nil {
		t.Fatal("p2p mode should hand live topology read handles to the engine")
	}
	if got := runner.extra.Live.UseLedgerAfter(); got != 100 {
		t.Fatalf("ledger threshold should be 100, got %v", got)
	}
	if runner.args.ConnectionLimits.HardLimit != diffusion.HardConnectionLimit {
		t.Fatalf("unexpected hard limit: %d", runner.args.ConnectionLimits.HardLimit)
	}
	if runner.args.Mode != diffusion.InitiatorAndResponder {
		t.Fatalf("unexpected mode: %v", runner.args.Mode)
	}

	// experimental versions are off by default, so only released versions
	// are advertised
	for v := range runner.extra.NodeToNodeVersions {
		if v > protocol.LatestReleasedNodeToNodeVersion {
			t.Fatalf("development version %d should not be advertised", v)
		}
	}
	if len(runner.extra.NodeToNodeVersions) == 0 {
		t.Fatal("no node-to-node versions advertised")
	}
}

func TestBootstrapStatic(t *testing.T) {
	cfg := testNodeConfig(t)
	cfg.EnableP2P = false
	cfg.InitiatorOnly = true

	topo := `{"Producers": [
		{"addr": "relay.example", "port": 3001, "valency": 1},
		{"addr": "10.0.0.9", "port": 3001, "valency": 1}
	]}`
	if err := os.WriteFile(cfg.TopologyFile, []byte(topo), 0644); err != nil {
		t.Fatalf("err: %v", err)
	}

	runner := &recordingRunner{}
	n := NewNode(cfg, runner)

	if err := n.Init(); err != nil {
		t.Fatalf("err: %v", err)
	}
	if n.Topology != nil {
		t.Fatal("static mode must not build a reconciler")
	}

	if err := n.Run(); err != nil {
		t.Fatalf("err: %v", err)
	}

	if runner.extra.Live != nil {
		t.Fatal("static mode must not hand out live read handles")
	}
	if len(runner.extra.DNSProducers) != 1 || len(runner.extra.AddrProducers) != 1 {
		t.Fatalf("unexpected producer partition: %v / %v",
			runner.extra.DNSProducers, runner.extra.AddrProducers)
	}
	if runner.args.Mode != diffusion.InitiatorOnly {
		t.Fatalf("unexpected mode: %v", runner.args.Mode)
	}
}

func TestBootstrapRefusesLeakyVRFKey(t *testing.T) {
	cfg := testNodeConfig(t)
	cfg.BlockProducer = true

	if err := os.WriteFile(cfg.VRFKeyFile, []byte("secret"), 0600); err != nil {
		t.Fatalf("err: %v", err)
	}
	if err := os.Chmod(cfg.VRFKeyFile, 0640); err != nil {
		t.Fatalf("err: %v", err)
	}

	n := NewNode(cfg, &recordingRunner{})

	err := n.Init()

	var perr *keys.PermissionError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
	if perr.Kind != keys.GroupPermissionsExist {
		t.Fatalf("expected GroupPermissionsExist, got %s", perr.Kind)
	}
}

func TestBootstrapAcceptsOwnerOnlyVRFKey(t *testing.T) {
	cfg := testNodeConfig(t)
	cfg.BlockProducer = true

	if err := os.WriteFile(cfg.VRFKeyFile, []byte("secret"), 0600); err != nil {
		t.Fatalf("err: %v", err)
	}
	if err := os.Chmod(cfg.VRFKeyFile, 0600); err != nil {
		t.Fatalf("err: %v", err)
	}

	n := NewNode(cfg, &recordingRunner{})

	if err := n.Init(); err != nil {
		t.Fatalf("err: %v", err)
	}
}

func TestBootstrapInvalidConfig(t *testing.T) {
	cfg := testNodeConfig(t)
	cfg.Protocol = "raft"

	n := NewNode(cfg, &recordingRunner{})

	var ferr *config.FieldError
	if err := n.Init(); !errors.As(err, &ferr) {
		t.Fatalf("expected FieldError, got %v", err)
	}
}
