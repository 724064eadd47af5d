package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"taskdesk/internal/export"
	"taskdesk/internal/service"
)

func sample() []service.Task {
	return []service.Task{
		{ID: "1", Title: "Buy milk", Description: "2 liters, whole", Status: service.StatusPending},
		{ID: "2", Title: "Walk dog", Status: service.StatusCompleted},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]export.Format{"json": export.FormatJSON, " CSV ": export.FormatCSV, "Pdf": export.FormatPDF} {
		got, err := export.ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; expected %q", in, got, err, want)
		}
	}
	if _, err := export.ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := export.Write(&buf, export.FormatJSON, sample()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 2 || got[1]["status"] != "completed" || got[0]["description"] != "2 liters, whole" {
		t.Errorf("unexpected json %v", got)
	}
}

func TestWrite_JSONEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := export.Write(&buf, export.FormatJSON, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("expected %q, got %q", "[]\n", buf.String())
	}
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := export.Write(&buf, export.FormatCSV, sample()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if rows[1][2] != "2 liters, whole" {
		t.Errorf("expected quoted description preserved, got %q", rows[1][2])
	}
}

type failingWriter struct{ err error }

func (w failingWriter) Write(p []byte) (int, error) { return 0, w.err }

func TestWrite_CSVReportsWriterError(t *testing.T) {
	// Enough rows to overflow the csv buffer mid-loop.
	tasks := make([]service.Task, 100)
	for i := range tasks {
		tasks[i] = service.Task{ID: "x", Title: strings.Repeat("t", 80), Status: service.StatusPending}
	}
	errDisk := errors.New("disk full")
	err := export.Write(failingWriter{err: errDisk}, export.FormatCSV, tasks)
	if !errors.Is(err, errDisk) {
		t.Errorf("expected %v, got %v", errDisk, err)
	}
}

func TestWrite_PDF(t *testing.T) {
	var buf bytes.Buffer
	if err := export.Write(&buf, export.FormatPDF, sample()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("expected PDF header, got %q", buf.Bytes()[:min(8, buf.Len())])
	}
}
