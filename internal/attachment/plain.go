package attachment

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

type textInspector struct{}

func (textInspector) Inspect(data []byte, s *Summary) error {
	s.Excerpt = string(bytes.ToValidUTF8(data, []byte("�")))
	return nil
}

// csvPreviewRows is how many data rows feed the excerpt.
const csvPreviewRows = 5

type csvInspector struct{}

// Inspect reads the header as column names and counts the data rows.
// Ragged rows are accepted; quotes are read leniently since these files
// usually come out of spreadsheets.
func (csvInspector) Inspect(data []byte, s *Summary) error {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read csv header: %w", err)
	}
	for _, col := range header {
		s.Columns = append(s.Columns, strings.TrimSpace(col))
	}

	var preview []string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read csv row %d: %w", s.Rows+2, err)
		}
		s.Rows++
		if len(preview) < csvPreviewRows {
			preview = append(preview, strings.Join(record, ", "))
		}
	}
	s.Excerpt = strings.Join(preview, "\n")
	return nil
}
