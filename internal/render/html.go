package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const pageStyle = `body{font-family:Helvetica,Arial,sans-serif;color:#1d2b36;max-width:820px;margin:32px auto;padding:0 24px}
h1{color:#0b5c8a;border-bottom:3px solid #0b5c8a;padding-bottom:8px}
h2{color:#0b5c8a;margin-top:32px}
table{width:100%;border-collapse:collapse;margin:8px 0}
th,td{border-bottom:1px solid #d5dde3;padding:6px 8px;text-align:left}
th:last-child,td:last-child{text-align:right;white-space:nowrap}
@media print{h2{page-break-after:avoid}table{page-break-inside:avoid}}`

// HTML renders the Markdown form through goldmark and wraps it in a
// standalone page. Raw HTML in customer text is never passed through.
func HTML(doc *Document) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert(Markdown(doc), &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n<style>\n%s\n</style>\n</head>\n<body>\n",
		html.EscapeString(doc.Title), pageStyle)
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}
