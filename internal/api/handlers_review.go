package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/poolproposal/internal/attachment"
	"github.com/dgallion1/poolproposal/internal/notify"
	"github.com/dgallion1/poolproposal/internal/proposal"
	"github.com/dgallion1/poolproposal/internal/storage"
	"github.com/dgallion1/poolproposal/internal/store"
)

// maxNoteLength bounds the free text a customer sends with a decision.
const maxNoteLength = 4000

type statusRequest struct {
	Status proposal.Status `json:"status"`
	Note   string          `json:"note"`
}

// handleStatus records the customer's decision: approve, or ask for changes.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProposal(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Status != proposal.StatusApproved && req.Status != proposal.StatusChangesRequested {
		jsonError(w, "status must be approved or changes_requested", http.StatusBadRequest)
		return
	}
	req.Note = strings.TrimSpace(req.Note)
	if len(req.Note) > maxNoteLength {
		jsonError(w, fmt.Sprintf("note exceeds %d bytes", maxNoteLength), http.StatusBadRequest)
		return
	}

	from := p.Status
	updated, err := s.store.UpdateStatus(r.Context(), p.ID, req.Status, req.Note)
	var terr *store.TransitionError
	switch {
	case errors.As(err, &terr):
		jsonError(w, terr.Error(), http.StatusConflict)
		return
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, "proposal not found", http.StatusNotFound)
		return
	case err != nil:
		s.log.Error("update status", "proposal_id", p.ID, "error", err)
		jsonError(w, "failed to update status", http.StatusInternalServerError)
		return
	}

	s.log.Info("proposal status changed", "proposal_id", p.ID, "from", from, "to", updated.Status)
	ev := notify.NewEvent(notify.KindStatusChanged, p.ID, map[string]any{
		"from":   from,
		"status": updated.Status,
		"note":   updated.StatusNote,
	})
	s.submit(ev)

	writeJSON(w, http.StatusOK, map[string]any{
		"proposal": updated,
		"event_id": ev.ID,
	})
}

// handleAttachment accepts one file sent with a change request, summarises
// it and keeps the original (plus an image thumbnail) in object storage.
func (s *Server) handleAttachment(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProposal(w, r)
	if !ok {
		return
	}

	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !attachment.IsSupported(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	summary, err := attachment.Inspect(filename, data)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	resp := map[string]any{"attachment": summary}
	payload := map[string]any{
		"filename": summary.Filename,
		"kind":     summary.Kind,
		"size":     summary.Size,
		"note":     strings.TrimSpace(r.FormValue("note")),
	}

	if s.uploader != nil {
		key := storage.ObjectKey(p.ID, filename)
		url, err := s.uploader.Upload(r.Context(), key, summary.ContentType, data)
		if err != nil {
			s.log.Error("upload attachment", "proposal_id", p.ID, "key", key, "error", err)
			jsonError(w, "failed to store attachment", http.StatusBadGateway)
			return
		}
		resp["url"] = url
		payload["url"] = url

		if len(summary.Thumbnail) > 0 {
			thumbURL, err := s.uploader.Upload(r.Context(), storage.ThumbnailKey(key), "image/jpeg", summary.Thumbnail)
			if err != nil {
				s.log.Warn("upload thumbnail", "proposal_id", p.ID, "key", key, "error", err)
			} else {
				resp["thumbnail_url"] = thumbURL
				payload["thumbnail_url"] = thumbURL
			}
		}
	}

	ev := notify.NewEvent(notify.KindAttachmentAdded, p.ID, payload)
	s.submit(ev)
	resp["event_id"] = ev.ID

	s.log.Info("attachment received",
		"proposal_id", p.ID,
		"filename", summary.Filename,
		"kind", summary.Kind,
		"size", summary.Size,
	)
	writeJSON(w, http.StatusCreated, resp)
}

func sanitizeFilename(name string) string {
	// Browsers on Windows may send the full client path.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
