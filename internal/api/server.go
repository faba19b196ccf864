// Package api serves the proposal viewer: snapshots, step navigation, price
// totals, the customer's review decision and document export.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/poolproposal/internal/catalog"
	"github.com/dgallion1/poolproposal/internal/config"
	"github.com/dgallion1/poolproposal/internal/notify"
	"github.com/dgallion1/poolproposal/internal/proposal"
	"github.com/dgallion1/poolproposal/internal/render"
	"github.com/dgallion1/poolproposal/internal/storage"
	"github.com/dgallion1/poolproposal/internal/store"
)

// Server is the HTTP API server for the proposal viewer.
type Server struct {
	router   chi.Router
	store    store.Store
	catalog  catalog.Catalog
	notifier *notify.Dispatcher
	uploader storage.Uploader
	pdf      *render.PDFRenderer
	money    render.Money
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. uploader and pdf may be
// nil; attachments are then inspected but not kept, and PDF export answers
// 503.
func NewServer(st store.Store, notifier *notify.Dispatcher, uploader storage.Uploader, pdf *render.PDFRenderer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:    st,
		catalog:  catalog.Default(),
		notifier: notifier,
		uploader: uploader,
		pdf:      pdf,
		money:    render.Money{Symbol: cfg.CurrencySymbol},
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/proposals", s.handleListProposals)
		r.Route("/api/proposals/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetProposal)
			r.Get("/steps", s.handleSteps)
			r.Get("/navigation", s.handleGetNavigation)
			r.Post("/navigation", s.handleNavigate)
			r.Get("/totals", s.handleTotals)
			r.Post("/status", s.handleStatus)
			r.Post("/attachments", s.handleAttachment)
			r.Get("/document.{format}", s.handleDocument)
		})

		r.Get("/api/notifications/{eventID}", s.handleNotification)
		r.Get("/api/stats/notifications", s.handleNotificationStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// loadProposal fetches the {id} proposal, answering 404 or 500 itself when
// it cannot.
func (s *Server) loadProposal(w http.ResponseWriter, r *http.Request) (*proposal.Proposal, bool) {
	id := chi.URLParam(r, "id")
	p, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "proposal not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		s.log.Error("load proposal", "proposal_id", id, "error", err)
		jsonError(w, "failed to load proposal", http.StatusInternalServerError)
		return nil, false
	}
	return p, true
}

// submit queues a notification. Delivery problems never fail the request.
func (s *Server) submit(ev *notify.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Submit(ev); err != nil {
		s.log.Warn("notification not queued", "event_id", ev.ID, "kind", ev.Kind, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
