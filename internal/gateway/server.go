// Package gateway is the HTTP surface of the bancho gateway: login, the
// long-poll packet exchange, and the legacy web leaderboard endpoint.
package gateway

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hoshizora/bancho-gateway/internal/config"
	"github.com/hoshizora/bancho-gateway/internal/events"
	"github.com/hoshizora/bancho-gateway/internal/monitoring"
	"github.com/hoshizora/bancho-gateway/internal/services"
)

// Server holds the gateway's wiring: config, backend clients, the packet
// dispatcher and metrics. It is stateless between requests.
type Server struct {
	cfg        *config.Config
	clients    *services.Clients
	dispatcher *events.Dispatcher
	metrics    *monitoring.Metrics
	registry   *prometheus.Registry
}

func NewServer(cfg *config.Config, registry *prometheus.Registry) *Server {
	metrics := monitoring.New(registry)
	clients := services.New(cfg.Services, metrics)

	return &Server{
		cfg:        cfg,
		clients:    clients,
		dispatcher: events.NewDispatcher(clients, metrics),
		metrics:    metrics,
		registry:   registry,
	}
}

// Router builds the gateway's route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.withRequestID)
	r.Use(s.instrument)

	r.HandleFunc("/v1/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/v1/bancho", s.handleBancho).Methods(http.MethodPost)
	r.HandleFunc("/v1/web/osu-osz2-getscores.php", s.handleGetScores).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).
		Methods(http.MethodGet)

	return r
}
