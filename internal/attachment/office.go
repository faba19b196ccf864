package attachment

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
	pdflib "github.com/ledongthuc/pdf"
)

type pdfInspector struct{}

// Inspect counts pages and keeps the text of the first pages that have any.
// Pages whose text cannot be extracted (scans, broken fonts) are skipped.
func (pdfInspector) Inspect(data []byte, s *Summary) error {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open pdf: %w", err)
	}

	s.Pages = reader.NumPage()
	var buf strings.Builder
	for i := 1; i <= s.Pages && buf.Len() < MaxExcerpt*4; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}
	s.Excerpt = buf.String()
	return nil
}

type docxInspector struct{}

func (docxInspector) Inspect(data []byte, s *Summary) error {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("parse docx: %w", err)
	}

	var body []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		if docxHeadingLevel(para) > 0 {
			s.Headings = append(s.Headings, text)
			continue
		}
		body = append(body, text)
	}
	s.Excerpt = strings.Join(body, "\n")
	return nil
}

// docxHeadingLevel reads the level from "Heading1" or "heading 1" styles.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch strings.TrimPrefix(style, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4", "5", "6":
		return 4
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
