package node

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/solasnetworks/solas/src/diffusion"
)

// ConnectionSampler periodically samples peer-connection state from the
// engine kernel for telemetry. It is fire-and-forget: a failure inside the
// sampling loop is logged and the loop keeps running; it never affects the
// run loop.
type ConnectionSampler struct {
	kernel   diffusion.Kernel
	interval time.Duration
	logger   *logrus.Entry

	shutdownCh chan struct{}
	stopOnce   sync.Once
}

// NewConnectionSampler ...
func NewConnectionSampler(kernel diffusion.Kernel, interval time.Duration, logger *logrus.Entry) *ConnectionSampler {
	return &ConnectionSampler{
		kernel:     kernel,
		interval:   interval,
		logger:     logger.WithField("component", "telemetry"),
		shutdownCh: make(chan struct{}),
	}
}

// Start launches the sampling goroutine.
func (s *ConnectionSampler) Start() {
	go s.run()
}

// Stop terminates the sampling goroutine. Safe to call more than once.
func (s *ConnectionSampler) Stop() {
	s.stopOnce.Do(func() {
		close(s.shutdownCh)
	})
}

func (s *ConnectionSampler) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sample()
		case <-s.shutdownCh:
			return
		}
	}
}

// sample polls the kernel once. No resource is held across the ticker wait,
// and a panicking kernel must not take the node down with it.
func (s *ConnectionSampler) sample() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Connection sampling failed")
		}
	}()

	s.logger.WithField("connections", s.kernel.ConnectionCount()).Debug("Sampled peer connections")
}
