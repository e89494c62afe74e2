package render

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docxlist/internal/liststyle"
	"github.com/dgallion1/docxlist/internal/wordml"
)

// CSVRenderer handles CSV files. The first row is the header; each record
// becomes a numbered item with a bulleted "header: value" entry per cell.
type CSVRenderer struct{}

func (r *CSVRenderer) Render(ctx context.Context, in io.Reader, b *Builder) error {
	reader := csv.NewReader(in)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	headers := records[0]
	rows := records[1:]
	if len(rows) == 0 {
		b.Paragraph("").AddRun(strings.Join(headers, ", "), wordml.RunStyle{Bold: true})
		return nil
	}

	b.StartList(liststyle.Decimal)
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := b.Item()
		if err != nil {
			return err
		}
		p.AddRun(recordTitle(row, i+2), wordml.RunStyle{Bold: true})

		b.StartList(liststyle.Disc)
		for j, cell := range row {
			item, err := b.Item()
			if err != nil {
				return err
			}
			if j < len(headers) && headers[j] != "" {
				item.AddRun(headers[j]+": ", wordml.RunStyle{Bold: true})
			}
			item.AddRun(cell, wordml.RunStyle{})
		}
		if err := b.EndList(); err != nil {
			return err
		}
	}
	return b.EndList()
}

// recordTitle labels a record by its first non-empty cell, falling back to
// its 1-indexed line.
func recordTitle(row []string, line int) string {
	for _, cell := range row {
		if cell = strings.TrimSpace(cell); cell != "" {
			return cell
		}
	}
	return fmt.Sprintf("Row %d", line)
}
