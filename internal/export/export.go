// Package export writes task collections as JSON, CSV or PDF.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"taskdesk/internal/service"
)

// Format is an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %s", s)
	}
}

type record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Write encodes tasks to w in the given format.
func Write(w io.Writer, format Format, tasks []service.Task) error {
	switch format {
	case FormatJSON:
		records := make([]record, len(tasks))
		for i, t := range tasks {
			records[i] = record{ID: t.ID, Title: t.Title, Description: t.Description, Status: string(t.Status)}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"id", "title", "description", "status"}); err != nil {
			return err
		}
		for _, t := range tasks {
			if err := cw.Write([]string{t.ID, t.Title, t.Description, string(t.Status)}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case FormatPDF:
		return writePDF(w, tasks)
	default:
		return fmt.Errorf("unknown format %s", format)
	}
}

func writePDF(w io.Writer, tasks []service.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, t := range tasks {
		mark := "[ ]"
		if t.Status == service.StatusCompleted {
			mark = "[x]"
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, tr(mark+" "+t.Title), "0", "L", false)
		if strings.TrimSpace(t.Description) != "" {
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, tr(t.Description), "0", "L", false)
		}
		pdf.Ln(2)
	}
	if len(tasks) == 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(40, 6, "No tasks")
	}
	return pdf.Output(w)
}
