package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleNotificationStats(w http.ResponseWriter, r *http.Request) {
	if s.notifier == nil {
		jsonError(w, "notifications unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.notifier.Stats())
}

func (s *Server) handleNotification(w http.ResponseWriter, r *http.Request) {
	if s.notifier == nil {
		jsonError(w, "notifications unavailable", http.StatusServiceUnavailable)
		return
	}
	ev := s.notifier.Event(chi.URLParam(r, "eventID"))
	if ev == nil {
		jsonError(w, "event not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ev.Snapshot())
}
