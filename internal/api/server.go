package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohamedkhairy/momentum-screener/pkg/logger"
)

// NewRouter wires the REST, websocket, health and metrics routes. hub may be nil.
func NewRouter(h *Handler, hub *Hub) http.Handler {
	router := mux.NewRouter()
	router.Use(mux.MiddlewareFunc(RecoveryMiddleware()), mux.MiddlewareFunc(LoggingMiddleware()))

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/toplist", h.GetToplist).Methods(http.MethodGet)
	v1.HandleFunc("/instruments", h.ListInstruments).Methods(http.MethodGet)
	v1.HandleFunc("/instruments/{symbol}", h.GetInstrument).Methods(http.MethodGet)
	v1.HandleFunc("/runs", h.TriggerRun).Methods(http.MethodPost)

	if hub != nil {
		router.HandleFunc("/ws", hub.ServeWS)
	}

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/live", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.Ready).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler())

	return CORSMiddleware()(router)
}

// Server is the HTTP server for the API
type Server struct {
	srv *http.Server
}

// NewServer creates a server on addr
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
	}
}

// ListenAndServe blocks until the server stops. A graceful shutdown returns nil.
func (s *Server) ListenAndServe() error {
	logger.Info("Starting HTTP server", logger.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
