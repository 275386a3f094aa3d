package topology

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/sirupsen/logrus"
)

// State captures the lifecycle of a Reconciler: Uninitialized, Loaded, Live,
// or Faulted.
type State uint32

const (
	// Uninitialized is the state before the first Load.
	Uninitialized State = iota
	// Loaded means the topology file was parsed but not yet published.
	Loaded
	// Live means a generation is published and readable.
	Live
	// Faulted is entered transiently while a failed reload is being
	// reported; the previous Live generation remains readable throughout.
	Faulted
)

// String ...
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Loaded:
		return "Loaded"
	case Live:
		return "Live"
	case Faulted:
		return "Faulted"
	default:
		return "Unknown"
	}
}

// Reconciler owns the live peer-to-peer topology state. It publishes
// immutable Snapshots through an atomically-swapped cell: every reload
// replaces the whole (local roots, public roots, ledger threshold) triple at
// once, so readers never observe components from different generations.
//
// The read accessors never block. The diffusion run loop holds the Reconciler
// only through them and never mutates the published state.
type Reconciler struct {
	path   string
	logger *logrus.Entry

	state   uint32
	current atomic.Pointer[Snapshot]

	sighupCh   chan os.Signal
	shutdownCh chan struct{}
	watchOnce  sync.Once
	stopOnce   sync.Once

	// reloadLock serializes reloads; it is never taken by readers.
	reloadLock sync.Mutex
}

// NewReconciler creates a Reconciler for the topology file at path. Call Load
// before using the read accessors.
func NewReconciler(path string, logger *logrus.Entry) *Reconciler {
	return &Reconciler{
		path:       path,
		logger:     logger.WithField("component", "topology"),
		sighupCh:   make(chan os.Signal, 1),
		shutdownCh: make(chan struct{}),
	}
}

func (r *Reconciler) getState() State {
	return State(atomic.LoadUint32(&r.state))
}

func (r *Reconciler) setState(s State) {
	atomic.StoreUint32(&r.state, uint32(s))
}

// State returns the current lifecycle state.
func (r *Reconciler) State() State {
	return r.getState()
}

// Load performs the initial read of the topology file and publishes
// generation 0. Unlike reloads, a failure here is returned to the caller and
// is fatal to the bootstrap sequence.
func (r *Reconciler) Load() error {
	snapshot, err := ReadP2PSnapshot(r.path)
	if err != nil {
		return err
	}

	r.setState(Loaded)

	snapshot.Generation = 0
	r.current.Store(snapshot)
	r.setState(Live)

	r.logger.WithFields(logrus.Fields{
		"generation":        0,
		"local_root_groups": len(snapshot.LocalRoots),
		"public_roots":      len(snapshot.PublicRoots),
		"use_ledger_after":  snapshot.UseLedgerAfter,
	}).Info("Topology loaded")

	return nil
}

// Reload re-reads the topology file and, on success, atomically replaces the
// published snapshot with the next generation. On a read or parse error the
// previous generation is retained and the error is reported to the log only;
// the node keeps serving with its old peers. Reload is safe to call directly
// and is what the SIGHUP watcher invokes.
func (r *Reconciler) Reload() {
	r.reloadLock.Lock()
	defer r.reloadLock.Unlock()

	previous := r.current.Load()
	if previous == nil {
		r.logger.Error("Reload requested before initial topology load")
		return
	}

	snapshot, err := ReadP2PSnapshot(r.path)
	if err != nil {
		r.setState(Faulted)
		r.logger.WithError(err).WithField("generation", previous.Generation).
			Error("Topology reload failed, keeping previous generation")
		r.setState(Live)
		return
	}

	snapshot.Generation = previous.Generation + 1
	r.current.Store(snapshot)

	r.logger.WithFields(logrus.Fields{
		"generation":        snapshot.Generation,
		"local_root_groups": len(snapshot.LocalRoots),
		"public_roots":      len(snapshot.PublicRoots),
		"use_ledger_after":  snapshot.UseLedgerAfter,
	}).Info("Topology reloaded")
}

// Watch installs the SIGHUP handler and starts the goroutine that performs
// reloads. It may be called at most once, after Load. The watcher performs
// its file I/O outside any lock the run loop needs.
func (r *Reconciler) Watch() {
	r.watchOnce.Do(func() {
		signal.Notify(r.sighupCh, syscall.SIGHUP)

		go func() {
			for {
				select {
				case <-r.sighupCh:
					r.logger.Debug("SIGHUP received")
					r.Reload()
				case <-r.shutdownCh:
					signal.Stop(r.sighupCh)
					return
				}
			}
		}()
	})
}

// Stop terminates the SIGHUP watcher. The published snapshot remains
// readable.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() {
		close(r.shutdownCh)
	})
}

// Generation returns the generation counter of the published snapshot.
func (r *Reconciler) Generation() uint64 {
	return r.current.Load().Generation
}

// LocalRoots returns the local-root groups of the latest committed
// generation.
func (r *Reconciler) LocalRoots() []LocalRootGroup {
	return r.current.Load().LocalRoots
}

// PublicRoots returns the public roots of the latest committed generation.
func (r *Reconciler) PublicRoots() []RelayAccessPoint {
	return r.current.Load().PublicRoots
}

// UseLedgerAfter returns the ledger-peer threshold of the latest committed
// generation.
func (r *Reconciler) UseLedgerAfter() UseLedgerAfter {
	return r.current.Load().UseLedgerAfter
}

// Current returns the whole published snapshot. Callers that need a coherent
// view of several components should use this rather than separate accessor
// calls.
func (r *Reconciler) Current() *Snapshot {
	return r.current.Load()
}
