package render

import (
	"bytes"
	"fmt"
	"strings"
)

// Markdown writes the document as GitHub flavoured Markdown with one table
// per section.
func Markdown(doc *Document) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", inline(doc.Title))
	if doc.Reference != "" {
		fmt.Fprintf(&buf, "**Reference:** %s  \n", inline(doc.Reference))
	}
	if doc.Status != "" {
		fmt.Fprintf(&buf, "**Status:** %s  \n", strings.ReplaceAll(string(doc.Status), "_", " "))
	}
	fmt.Fprintf(&buf, "**Total:** %s\n", doc.GrandTotal)

	for _, n := range doc.Children {
		writeNode(&buf, n, 2)
	}
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, n *Node, level int) {
	fmt.Fprintf(buf, "\n%s %s\n", strings.Repeat("#", level), inline(n.Title))
	writeTable(buf, n.Rows)
	for _, c := range n.Children {
		writeNode(buf, c, level+1)
	}
	if n.Footer != nil {
		fmt.Fprintf(buf, "\n**%s:** %s\n", n.Footer.Label, n.Footer.Amount)
	}
}

func writeTable(buf *bytes.Buffer, rows []Row) {
	if len(rows) == 0 {
		return
	}
	buf.WriteString("\n| Item | Detail | Amount |\n| --- | --- | ---: |\n")
	for _, r := range rows {
		fmt.Fprintf(buf, "| %s | %s | %s |\n", cell(r.Label), cell(r.Detail), cell(r.Amount))
	}
}

var inlineEscaper = strings.NewReplacer(
	"\\", "\\\\", "*", "\\*", "_", "\\_", "`", "\\`", "[", "\\[", "]", "\\]", "<", "\\<", "#", "\\#",
	"\r", " ", "\n", " ",
)

// inline escapes customer-entered text so it renders literally.
func inline(s string) string {
	return inlineEscaper.Replace(strings.TrimSpace(s))
}

func cell(s string) string {
	return strings.ReplaceAll(inline(s), "|", "\\|")
}
