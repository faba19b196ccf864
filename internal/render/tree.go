// Package render turns a proposal into a printable document: the same steps a
// customer can navigate to, with their cost lines and the price summary.
package render

import "github.com/dgallion1/poolproposal/internal/proposal"

// Document is the root of a rendered proposal.
type Document struct {
	Title      string          // "Pool Proposal for <customer>"
	Reference  string          // Quote reference, may be empty
	Status     proposal.Status // Workflow status at render time
	Children   []*Node         // One node per available section, catalog order
	GrandTotal string          // Formatted grand total
}

// Node is one section of the document, or a subsection under it.
type Node struct {
	Section  proposal.SectionID
	Title    string  // Section title or subsection label
	Rows     []Row   // Detail and cost lines
	Footer   *Row    // Subtotal (or grand total for the summary), nil when unpriced
	Children []*Node // Subsections
}

// Row is a single line of a section table. Either column may be empty.
type Row struct {
	Label  string
	Detail string
	Amount string
}
