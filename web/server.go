package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dumpersafety/dumperwatch/config"
	"github.com/dumpersafety/dumperwatch/dashboard"
	"github.com/dumpersafety/dumperwatch/model"
	"github.com/gorilla/mux"

	log "github.com/sirupsen/logrus"
)

type HistoryReader interface {
	RecentDetections(ctx context.Context, limit int) ([]model.HistoryEntry, error)
}

// Server is the JSON bridge the browser dashboard talks to.
type Server struct {
	Server http.Server

	cfg       config.DashboardConfig
	dashboard *dashboard.Dashboard
	history   HistoryReader // nil when no history store is configured
	auth      *authenticator

	// baseCtx outlives individual requests: a detect round trip keeps
	// running after the triggering HTTP request returns 202.
	baseCtx context.Context
}

func NewServer(ctx context.Context, cfg config.DashboardConfig, dash *dashboard.Dashboard, history HistoryReader) *Server {
	s := &Server{
		cfg:       cfg,
		dashboard: dash,
		history:   history,
		auth:      newAuthenticator(cfg),
		baseCtx:   ctx,
	}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.auth.middleware)
	api.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	api.HandleFunc("/tab", s.handleGetTab).Methods(http.MethodGet)
	api.HandleFunc("/tab", s.handleSetTab).Methods(http.MethodPost)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/{kind}/file", s.handleSelect).Methods(http.MethodPost)
	api.HandleFunc("/{kind}/detect", s.handleDetect).Methods(http.MethodPost)
	api.HandleFunc("/{kind}/clear", s.handleClear).Methods(http.MethodPost)
	api.HandleFunc("/{kind}/status", s.handleStatus).Methods(http.MethodGet)

	s.Server = http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler: router,
	}
	return s
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	log.Debug("received healthcheck request")
	// This will have a status of 200
	fmt.Fprintf(w, "all good in the hood")
}
