package api

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"room-chat-backend/internal/chat"
	"room-chat-backend/internal/queue"
	"room-chat-backend/internal/service/history"
)

type RouteRegistrar func(mux *http.ServeMux, s *APIServer)

type APIServer struct {
	listenAddr          string
	requestQueueManager *queue.RequestQueueManager
	hub                 *chat.Hub
	history             *history.Service
	routeRegistrars     []RouteRegistrar
	metrics             *metrics
}

// NewAPIServer wires the route registrars around the shared hub and the
// optional history service (nil when no archive table is configured).
func NewAPIServer(listenAddr string, rqm *queue.RequestQueueManager, hub *chat.Hub, historyService *history.Service, registrars ...RouteRegistrar) *APIServer {
	return &APIServer{
		listenAddr:          listenAddr,
		requestQueueManager: rqm,
		hub:                 hub,
		history:             historyService,
		routeRegistrars:     registrars,
		metrics:             newMetrics(prometheus.DefaultRegisterer, listenAddr, rqm),
	}
}

func (s *APIServer) Mux() *http.ServeMux {
	mux := http.NewServeMux()

	for _, reg := range s.routeRegistrars {
		reg(mux, s)
	}

	mux.Handle("/metrics", s.metrics.metricsHandler())
	return mux
}

func (s *APIServer) Run() {
	mux := s.Mux()

	fmt.Printf("Server listening on http://localhost%s\n", s.listenAddr)

	if err := http.ListenAndServe(s.listenAddr, s.metrics.instrument(mux)); err != nil {
		fmt.Printf("server stopped: %v\n", err)
	}
}

func (s *APIServer) Hub() *chat.Hub {
	return s.hub
}

func (s *APIServer) History() *history.Service {
	return s.history
}
