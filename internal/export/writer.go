// Package export writes lead batches to CSV or Excel files on local disk.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"roofleads_backend/internal/leads/domain"
	"roofleads_backend/platform/logger"
	"roofleads_backend/platform/sanitize"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	xlsxSheetName = "Leads"
)

// column pairs a header name with its cell extractor. The slice order is the
// priority order: contact fields a caller dials from come first.
type column struct {
	name    string
	extract func(domain.LeadRow) *string
}

var columns = []column{
	{"name", func(r domain.LeadRow) *string { return r.Name }},
	{"phone", func(r domain.LeadRow) *string { return r.Phone }},
	{"email", func(r domain.LeadRow) *string { return r.Email }},
	{"address", func(r domain.LeadRow) *string { return r.Address }},
	{"city", func(r domain.LeadRow) *string { return r.City }},
	{"state", func(r domain.LeadRow) *string { return r.State }},
	{"type", func(r domain.LeadRow) *string { return r.Type }},
	{"score", func(r domain.LeadRow) *string { return intCell(r.Score) }},
	{"qualified", func(r domain.LeadRow) *string { return boolCell(r.Qualified) }},
	{"website", func(r domain.LeadRow) *string { return r.Website }},
	{"zip_code", func(r domain.LeadRow) *string { return r.ZipCode }},
	{"reason", func(r domain.LeadRow) *string { return r.Reason }},
	{"evidence_urls", func(r domain.LeadRow) *string { return r.EvidenceURLs }},
	{"storm_context", func(r domain.LeadRow) *string { return r.StormContext }},
	{"year_built", func(r domain.LeadRow) *string { return intCell(r.YearBuilt) }},
	{"role", func(r domain.LeadRow) *string { return r.Role }},
	{"notes", func(r domain.LeadRow) *string { return r.Notes }},
}

// Result reports a write attempt. Failure is data, not an error: the
// pipeline keeps its leads in memory even when the disk write fails.
type Result struct {
	Success     bool     `json:"success"`
	Filepath    *string  `json:"filepath,omitempty"`
	Format      *string  `json:"format,omitempty"`
	RowsWritten int      `json:"rows_written"`
	Columns     []string `json:"columns,omitempty"`
	Error       string   `json:"error,omitempty"`
	Fallback    *string  `json:"fallback,omitempty"`
}

// Writer persists lead files under a configured output directory.
type Writer struct {
	outputDir string
	log       *logger.Logger
}

func NewWriter(outputDir string, log *logger.Logger) *Writer {
	return &Writer{outputDir: outputDir, log: log}
}

// Write renders rows to the requested format. The filename is sanitized,
// stripped of any extension the caller added, and stamped with the write
// time so repeated exports never clobber each other.
func (w *Writer) Write(rows []domain.LeadRow, filename, format string) Result {
	if len(rows) == 0 {
		return Result{Success: false, Error: "No rows to write"}
	}

	if format != FormatCSV && format != FormatXLSX {
		fallback := "Use format 'csv' or 'xlsx'"
		return Result{Success: false, Error: fmt.Sprintf("unsupported format %q", format), Fallback: &fallback}
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	base := strings.TrimSuffix(strings.TrimSuffix(filename, ".csv"), ".xlsx")
	base = sanitize.Filename(base)
	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(w.outputDir, fmt.Sprintf("%s_%s.%s", base, stamp, format))

	active := activeColumns(rows)

	var err error
	switch format {
	case FormatXLSX:
		err = writeXLSX(path, rows, active)
	default:
		err = writeCSV(path, rows, active)
	}
	if err != nil {
		w.log.Error("lead export failed", "path", path, "error", err)
		return Result{Success: false, Error: err.Error()}
	}

	w.log.ExportWritten(path, format, len(rows))

	names := make([]string, len(active))
	for i, c := range active {
		names[i] = c.name
	}
	return Result{
		Success:     true,
		Filepath:    &path,
		Format:      &format,
		RowsWritten: len(rows),
		Columns:     names,
	}
}

// activeColumns keeps only columns populated in at least one row, preserving
// priority order. Exports never carry all-empty columns.
func activeColumns(rows []domain.LeadRow) []column {
	active := make([]column, 0, len(columns))
	for _, c := range columns {
		for _, r := range rows {
			if v := c.extract(r); v != nil && *v != "" {
				active = append(active, c)
				break
			}
		}
	}
	return active
}

func writeCSV(path string, rows []domain.LeadRow, active []column) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := make([]string, len(active))
	for i, c := range active {
		header[i] = c.name
	}
	if err := w.Write(header); err != nil {
		return err
	}

	record := make([]string, len(active))
	for _, row := range rows {
		for i, c := range active {
			record[i] = cellString(c.extract(row))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeXLSX(path string, rows []domain.LeadRow, active []column) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheetName); err != nil {
		return err
	}

	for i, c := range active {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(xlsxSheetName, cell, c.name); err != nil {
			return err
		}
	}

	for rowIdx, row := range rows {
		for colIdx, c := range active {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(xlsxSheetName, cell, cellString(c.extract(row))); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func cellString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intCell(n *int) *string {
	if n == nil {
		return nil
	}
	s := strconv.Itoa(*n)
	return &s
}

func boolCell(b *bool) *string {
	if b == nil {
		return nil
	}
	s := strconv.FormatBool(*b)
	return &s
}
