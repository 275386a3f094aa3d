// Package service exposes a read-only HTTP API for operators: the live
// topology generation, the effective configuration, and the node version.
package service

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/solasnetworks/solas/src/config"
	"github.com/solasnetworks/solas/src/topology"
	"github.com/solasnetworks/solas/src/version"
)

// Service serves the operator API. Handlers are registered with the
// DefaultServeMux of the http package, so another server in the same process
// sharing the same address:port will expose them too.
type Service struct {
	sync.Mutex

	bindAddress string
	config      *config.Config
	topology    *topology.Reconciler
	logger      *logrus.Entry
}

// NewService creates the operator API service. The topology reconciler may be
// nil when the node runs a static topology.
func NewService(bindAddress string, cfg *config.Config, topo *topology.Reconciler, logger *logrus.Entry) *Service {
	service := Service{
		bindAddress: bindAddress,
		config:      cfg,
		topology:    topo,
		logger:      logger.WithField("component", "service"),
	}

	service.registerHandlers()

	return &service
}

func (s *Service) registerHandlers() {
	s.logger.Debug("Registering API handlers")
	http.HandleFunc("/topology", s.makeHandler(s.GetTopology))
	http.HandleFunc("/config", s.makeHandler(s.GetConfig))
	http.HandleFunc("/version", s.makeHandler(s.GetVersion))
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		defer s.Unlock()

		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// Serve calls ListenAndServe. This is a blocking call.
func (s *Service) Serve() {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving operator API")

	// Use the DefaultServeMux
	err := http.ListenAndServe(s.bindAddress, nil)
	if err != nil {
		s.logger.Error(err)
	}
}

// GetTopology returns the latest committed topology generation as one
// coherent snapshot.
func (s *Service) GetTopology(w http.ResponseWriter, r *http.Request) {
	if s.topology == nil {
		http.Error(w, "static topology, nothing live to report", http.StatusNotFound)
		return
	}

	snapshot := s.topology.Current()

	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(map[string]interface{}{
		"generation":     snapshot.Generation,
		"localRoots":     snapshot.LocalRoots,
		"publicRoots":    snapshot.PublicRoots,
		"useLedgerAfter": snapshot.UseLedgerAfter,
		"state":          s.topology.State().String(),
	})
}

// GetConfig returns the effective node configuration.
func (s *Service) GetConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(s.config)
}

// GetVersion ...
func (s *Service) GetVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(map[string]string{"version": version.Version})
}
