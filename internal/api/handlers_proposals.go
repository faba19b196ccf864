package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dgallion1/poolproposal/internal/navigation"
	"github.com/dgallion1/poolproposal/internal/notify"
	"github.com/dgallion1/poolproposal/internal/pricing"
	"github.com/dgallion1/poolproposal/internal/proposal"
)

type proposalListItem struct {
	ID         string          `json:"id"`
	Reference  string          `json:"reference,omitempty"`
	Customer   string          `json:"customer,omitempty"`
	Status     proposal.Status `json:"status"`
	GrandTotal float64         `json:"grandTotal"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("list proposals", "error", err)
		jsonError(w, "failed to list proposals", http.StatusInternalServerError)
		return
	}

	items := make([]proposalListItem, 0, len(list))
	for _, p := range list {
		item := proposalListItem{
			ID:         p.ID,
			Reference:  p.Reference,
			Status:     p.Status,
			GrandTotal: pricing.ComputeTotals(p).GrandTotal,
			UpdatedAt:  p.UpdatedAt,
		}
		if p.CustomerInfo != nil {
			item.Customer = p.CustomerInfo.Name
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, map[string]any{"proposals": items})
}

// handleGetProposal returns the snapshot. The first read of a sent proposal
// marks it viewed when view tracking is on.
func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProposal(w, r)
	if !ok {
		return
	}

	if s.cfg.TrackViews && p.Status == proposal.StatusSent {
		viewed, err := s.store.UpdateStatus(r.Context(), p.ID, proposal.StatusViewed, "")
		if err != nil {
			s.log.Warn("mark proposal viewed", "proposal_id", p.ID, "error", err)
		} else {
			p = viewed
			s.submit(notify.NewEvent(notify.KindViewed, p.ID, map[string]any{
				"status": p.Status,
			}))
		}
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSteps(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProposal(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"totalSteps": s.catalog.Len(),
		"available":  navigation.AvailableIndices(p, s.catalog),
		"steps":      navigation.ListAvailableSteps(p, s.catalog),
	})
}

// handleGetNavigation describes the step at ?index=N. A missing index is the
// start; an index outside the catalog is pulled back inside it.
func (s *Server) handleGetNavigation(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProposal(w, r)
	if !ok {
		return
	}
	state := navigation.Start()
	if v := r.URL.Query().Get("index"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, "index must be an integer", http.StatusBadRequest)
			return
		}
		state = navigation.Normalize(navigation.State{Index: n}, s.catalog)
	}
	writeJSON(w, http.StatusOK, navigation.Describe(state, p, s.catalog))
}

type navigateRequest struct {
	Index  int    `json:"index"`
	Action string `json:"action"`
	Target int    `json:"target"`
}

type navigateResponse struct {
	navigation.Transition
	View navigation.View `json:"view"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProposal(w, r)
	if !ok {
		return
	}

	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	state := navigation.Normalize(navigation.State{Index: req.Index}, s.catalog)

	var t navigation.Transition
	switch req.Action {
	case "advance", "next":
		t = navigation.Advance(state, p, s.catalog)
	case "retreat", "previous":
		t = navigation.Retreat(state, p, s.catalog)
	case "jump":
		t = navigation.JumpTo(state, req.Target, s.catalog)
	default:
		jsonError(w, "action must be advance, retreat or jump", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, navigateResponse{
		Transition: t,
		View:       navigation.Describe(t.State, p, s.catalog),
	})
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProposal(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, pricing.ComputeTotals(p))
}
