package export

import (
	"encoding/csv"
	"os"
	"reflect"
	"regexp"
	"testing"

	"roofleads_backend/internal/leads/domain"
	"roofleads_backend/platform/logger"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }
func boolp(b bool) *bool    { return &b }

func sampleRows() []domain.LeadRow {
	return []domain.LeadRow{
		{
			Name:      strp("Jane Smith"),
			Phone:     strp("+15125551234"),
			Address:   strp("123 Oak St"),
			City:      strp("Austin"),
			State:     strp("TX"),
			Type:      strp("homeowner"),
			Score:     intp(65),
			Qualified: boolp(true),
			Reason:    strp("phone available, address verified"),
		},
		{
			Name:    strp("Bob Jones"),
			Address: strp("456 Elm St"),
			City:    strp("Austin"),
			State:   strp("TX"),
			Type:    strp("homeowner"),
			Score:   intp(30),
		},
	}
}

func TestWriteNoRows(t *testing.T) {
	w := NewWriter(t.TempDir(), logger.New("test"))
	result := w.Write(nil, "leads", FormatCSV)

	if result.Success {
		t.Fatalf("empty batch must not write a file")
	}
	if result.Error != "No rows to write" {
		t.Fatalf("unexpected error %q", result.Error)
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	w := NewWriter(t.TempDir(), logger.New("test"))
	result := w.Write(sampleRows(), "leads", "pdf")

	if result.Success {
		t.Fatalf("unsupported format must fail")
	}
	if result.Fallback == nil || *result.Fallback != "Use format 'csv' or 'xlsx'" {
		t.Fatalf("fallback hint missing: %v", result.Fallback)
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, logger.New("test"))
	result := w.Write(sampleRows(), "austin_leads.csv", FormatCSV)

	if !result.Success {
		t.Fatalf("write failed: %q", result.Error)
	}
	if result.RowsWritten != 2 {
		t.Fatalf("rows_written wrong: %d", result.RowsWritten)
	}

	// Extension stripped, timestamp appended.
	pattern := regexp.MustCompile(`austin_leads_\d{8}_\d{6}\.csv$`)
	if result.Filepath == nil || !pattern.MatchString(*result.Filepath) {
		t.Fatalf("filename must be stamped: %v", result.Filepath)
	}

	f, err := os.Open(*result.Filepath)
	if err != nil {
		t.Fatalf("open exported file: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read exported csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}

	header := records[0]
	want := []string{"name", "phone", "address", "city", "state", "type", "score", "qualified", "reason"}
	if len(header) != len(want) {
		t.Fatalf("header wrong: %v", header)
	}
	for i := range want {
		if header[i] != want[i] {
			t.Fatalf("column %d: got %q, want %q", i, header[i], want[i])
		}
	}

	if records[1][0] != "Jane Smith" || records[1][1] != "+15125551234" {
		t.Fatalf("first row wrong: %v", records[1])
	}
	// Bob has no phone; the shared column stays with an empty cell.
	if records[2][1] != "" {
		t.Fatalf("missing values must render empty, got %q", records[2][1])
	}
}

func TestWriteColumnPriorityOrder(t *testing.T) {
	full := domain.LeadRow{
		Name:         strp("Jane Smith"),
		Phone:        strp("+15125551234"),
		Email:        strp("jane@example.com"),
		Address:      strp("123 Oak St"),
		City:         strp("Austin"),
		State:        strp("TX"),
		ZipCode:      strp("78701"),
		Type:         strp("homeowner"),
		Score:        intp(65),
		Qualified:    boolp(true),
		Reason:       strp("phone available"),
		Website:      strp("https://example.com"),
		EvidenceURLs: strp("https://a.example"),
		StormContext: strp("hail"),
		YearBuilt:    intp(1987),
		Role:         strp("owner"),
		Notes:        strp("call after 5"),
	}

	w := NewWriter(t.TempDir(), logger.New("test"))
	result := w.Write([]domain.LeadRow{full}, "leads", FormatCSV)
	if !result.Success {
		t.Fatalf("write failed: %q", result.Error)
	}

	// Contact and scoring columns form a fixed prefix; everything else
	// follows after it.
	want := []string{
		"name", "phone", "email", "address", "city", "state",
		"type", "score", "qualified", "website",
		"zip_code", "reason", "evidence_urls", "storm_context",
		"year_built", "role", "notes",
	}
	if !reflect.DeepEqual(result.Columns, want) {
		t.Fatalf("column order wrong:\ngot:  %v\nwant: %v", result.Columns, want)
	}
}

func TestWriteDropsAllEmptyColumns(t *testing.T) {
	w := NewWriter(t.TempDir(), logger.New("test"))
	result := w.Write(sampleRows(), "leads", FormatCSV)

	if !result.Success {
		t.Fatalf("write failed: %q", result.Error)
	}
	for _, col := range result.Columns {
		if col == "email" || col == "website" || col == "notes" {
			t.Fatalf("column %q is empty in every row and must be dropped", col)
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	w := NewWriter(t.TempDir(), logger.New("test"))
	result := w.Write(sampleRows(), "leads", FormatXLSX)

	if !result.Success {
		t.Fatalf("xlsx write failed: %q", result.Error)
	}
	if result.Format == nil || *result.Format != FormatXLSX {
		t.Fatalf("format wrong: %v", result.Format)
	}
	info, err := os.Stat(*result.Filepath)
	if err != nil {
		t.Fatalf("stat exported file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("exported workbook is empty")
	}
}

func TestWriteSanitizesFilename(t *testing.T) {
	w := NewWriter(t.TempDir(), logger.New("test"))
	result := w.Write(sampleRows(), "../../../etc/passwd", FormatCSV)

	if !result.Success {
		t.Fatalf("write failed: %q", result.Error)
	}
	if pattern := regexp.MustCompile(`\.\.`); pattern.MatchString(*result.Filepath) {
		t.Fatalf("path traversal survived sanitization: %q", *result.Filepath)
	}
}
