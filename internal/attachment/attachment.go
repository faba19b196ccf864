// Package attachment inspects files a customer uploads with a change request
// (site plans, council letters, photos) so reviewers see a summary without
// opening the original.
package attachment

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// Kind is the broad file family an attachment belongs to.
type Kind string

const (
	KindPDF      Kind = "pdf"
	KindDOCX     Kind = "docx"
	KindHTML     Kind = "html"
	KindMarkdown Kind = "markdown"
	KindText     Kind = "text"
	KindCSV      Kind = "csv"
	KindImage    Kind = "image"
)

// MaxExcerpt bounds the text excerpt kept per attachment, in runes.
const MaxExcerpt = 500

// Summary is what the inspection found.
type Summary struct {
	Filename    string   `json:"filename"`
	Kind        Kind     `json:"kind"`
	ContentType string   `json:"contentType"`
	Size        int64    `json:"size"`
	SizeLabel   string   `json:"sizeLabel"`
	Pages       int      `json:"pages,omitempty"`
	Headings    []string `json:"headings,omitempty"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Rows        int      `json:"rows,omitempty"`
	Columns     []string `json:"columns,omitempty"`
	Width       int      `json:"width,omitempty"`
	Height      int      `json:"height,omitempty"`

	// Thumbnail is a JPEG preview for images, uploaded beside the original.
	Thumbnail []byte `json:"-"`
}

// Inspector extracts a Summary from raw file bytes.
type Inspector interface {
	Inspect(data []byte, s *Summary) error
}

type format struct {
	kind        Kind
	contentType string
	inspector   Inspector
}

var formats = map[string]format{
	".pdf":      {KindPDF, "application/pdf", pdfInspector{}},
	".docx":     {KindDOCX, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", docxInspector{}},
	".html":     {KindHTML, "text/html; charset=utf-8", htmlInspector{}},
	".htm":      {KindHTML, "text/html; charset=utf-8", htmlInspector{}},
	".md":       {KindMarkdown, "text/markdown; charset=utf-8", markdownInspector{}},
	".markdown": {KindMarkdown, "text/markdown; charset=utf-8", markdownInspector{}},
	".txt":      {KindText, "text/plain; charset=utf-8", textInspector{}},
	".csv":      {KindCSV, "text/csv; charset=utf-8", csvInspector{}},
	".jpg":      {KindImage, "image/jpeg", imageInspector{}},
	".jpeg":     {KindImage, "image/jpeg", imageInspector{}},
	".png":      {KindImage, "image/png", imageInspector{}},
	".gif":      {KindImage, "image/gif", imageInspector{}},
}

// IsSupported checks if a filename has an extension this package can inspect.
func IsSupported(filename string) bool {
	_, ok := formats[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// Inspect summarises one uploaded file.
func Inspect(filename string, data []byte) (*Summary, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	f, ok := formats[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: empty file", filename)
	}

	s := &Summary{
		Filename:    filepath.Base(filename),
		Kind:        f.kind,
		ContentType: f.contentType,
		Size:        int64(len(data)),
		SizeLabel:   humanize.Bytes(uint64(len(data))),
	}
	if err := f.inspector.Inspect(data, s); err != nil {
		return nil, fmt.Errorf("inspect %s: %w", s.Filename, err)
	}
	s.Excerpt = excerpt(s.Excerpt)
	return s, nil
}

// excerpt collapses whitespace and cuts to MaxExcerpt runes.
func excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= MaxExcerpt {
		return text
	}
	r := []rune(text)
	return strings.TrimSpace(string(r[:MaxExcerpt])) + "…"
}
