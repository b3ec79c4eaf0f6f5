package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sitescout/sitesim/internal/catalog"
	"github.com/sitescout/sitesim/internal/forecast"
	"github.com/sitescout/sitesim/internal/model"
	"github.com/sitescout/sitesim/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulation API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		srv := newServer(env)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.routes(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			httpSrv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// server holds per-process API state: the shared environment and the live
// sessions keyed by id.
type server struct {
	env *simEnv

	mu       sync.Mutex
	sessions map[string]*session.Session
}

func newServer(env *simEnv) *server {
	return &server{
		env:      env,
		sessions: make(map[string]*session.Session),
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/sites", s.handleSites)
		r.Get("/facilities", s.handleFacilities)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Get("/forecast", s.handleForecast)
			r.Post("/select", s.handleSelect)
			r.Post("/build", s.handleBuild)
			r.Delete("/selection", s.handleClearSelection)
			r.Post("/notifications/dismiss", s.handleDismiss)
		})
	})

	return r
}

func (s *server) handleSites(w http.ResponseWriter, r *http.Request) {
	result := catalog.Load(r.Context(), s.env.Client)
	writeJSON(w, http.StatusOK, map[string]any{
		"catalog":    result.Catalog,
		"candidates": result.Candidates,
		"advisories": result.Advisories,
	})
}

func (s *server) handleFacilities(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.env.Facilities)
}

func (s *server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := session.New(sessionConfig())

	id := uuid.New().String()
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	zap.L().Info("session created", zap.String("session", id))
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": id,
		"state":      sess.Snapshot(),
	})
}

func (s *server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		SiteID string `json:"site_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SiteID == "" {
		writeError(w, http.StatusBadRequest, "site_id is required")
		return
	}

	sites := catalog.Load(r.Context(), s.env.Client).Sites()
	var record *model.SiteRecord
	for i := range sites {
		if sites[i].ID == req.SiteID {
			record = &sites[i]
			break
		}
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "unknown site id")
		return
	}

	gen, err := sess.BeginSelection(record.ID)
	if errors.Is(err, session.ErrSiteBuilt) {
		writeError(w, http.StatusConflict, "site already has an installation")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	enriched, degraded := s.env.Resolver.Resolve(r.Context(), *record)
	sess.ApplyResolution(gen, enriched, degraded)

	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *server) handleBuild(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		FacilityID int `json:"facility_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	facility, found := model.FacilityByID(s.env.Facilities, req.FacilityID)
	if !found {
		writeError(w, http.StatusNotFound, "unknown facility id")
		return
	}

	_, err := sess.Build(facility)
	switch {
	case errors.Is(err, session.ErrNoSelection):
		writeError(w, http.StatusConflict, "no site selected")
		return
	case errors.Is(err, session.ErrInsufficientFunds):
		// Expected outcome: the state snapshot carries the rejection
		// notification.
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.ClearSelection()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.DismissNotification()
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *server) handleForecast(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, forecast.Run(sess.Snapshot().Installations))
}

// session resolves the {id} path parameter, writing a 404 when missing.
func (s *server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "unknown session id")
		return nil, false
	}
	return sess, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
