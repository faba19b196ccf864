package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// tableWidth is the usable A4 width in twips.
const tableWidth = 9000

// DOCX writes the document as a Word file: headings for sections, one
// bordered table per section, and a bold subtotal line.
func DOCX(doc *Document, w io.Writer) error {
	f := docx.New().WithDefaultTheme()
	f.AddParagraph().Style("Heading1").AddText(doc.Title)
	if doc.Reference != "" {
		f.AddParagraph().AddText("Reference: " + doc.Reference)
	}
	if doc.Status != "" {
		f.AddParagraph().AddText("Status: " + strings.ReplaceAll(string(doc.Status), "_", " "))
	}

	for _, n := range doc.Children {
		addNode(f, n, 2)
	}

	para := f.AddParagraph()
	para.AddText("Total: ").Bold()
	para.AddText(doc.GrandTotal).Bold()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func addNode(f *docx.Docx, n *Node, level int) {
	if level > 3 {
		level = 3
	}
	f.AddParagraph().Style(fmt.Sprintf("Heading%d", level)).AddText(n.Title)
	addTable(f, n.Rows)
	for _, c := range n.Children {
		addNode(f, c, level+1)
	}
	if n.Footer != nil {
		para := f.AddParagraph()
		para.AddText(n.Footer.Label + ": ").Bold()
		para.AddText(n.Footer.Amount)
	}
}

func addTable(f *docx.Docx, rows []Row) {
	if len(rows) == 0 {
		return
	}
	tbl := f.AddTable(len(rows)+1, 3, tableWidth, nil)
	for j, h := range []string{"Item", "Detail", "Amount"} {
		tbl.TableRows[0].TableCells[j].AddParagraph().AddText(h).Bold()
	}
	for i, r := range rows {
		cells := tbl.TableRows[i+1].TableCells
		cells[0].AddParagraph().AddText(r.Label)
		cells[1].AddParagraph().AddText(r.Detail)
		cells[2].AddParagraph().Justification("end").AddText(r.Amount)
	}
}
