package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/poolproposal/internal/render"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// handleDocument exports the proposal as md, html, docx or pdf.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	switch format {
	case "md", "html", "docx", "pdf":
	default:
		jsonError(w, fmt.Sprintf("unknown document format %q", format), http.StatusNotFound)
		return
	}

	p, ok := s.loadProposal(w, r)
	if !ok {
		return
	}
	doc := render.Build(p, s.catalog, s.money)

	var (
		body        []byte
		contentType string
		err         error
	)
	switch format {
	case "md":
		body, contentType = render.Markdown(doc), "text/markdown; charset=utf-8"
	case "html":
		body, err = render.HTML(doc)
		contentType = "text/html; charset=utf-8"
	case "docx":
		var buf bytes.Buffer
		err = render.DOCX(doc, &buf)
		body, contentType = buf.Bytes(), docxContentType
	case "pdf":
		if s.pdf == nil {
			jsonError(w, "pdf export unavailable", http.StatusServiceUnavailable)
			return
		}
		body, err = s.pdf.Render(r.Context(), doc)
		contentType = "application/pdf"
	}
	if err != nil {
		s.log.Error("render document", "proposal_id", p.ID, "format", format, "error", err)
		jsonError(w, "failed to render document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if format == "docx" || format == "pdf" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "proposal-"+p.ID+"."+format))
	}
	w.Write(body)
}
