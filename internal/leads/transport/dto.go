// Package transport defines the request and response DTOs for the leads API.
package transport

import (
	"roofleads_backend/internal/leads/domain"
	"roofleads_backend/internal/leads/normalize"
)

// CompileLead is one inbound record plus the externally judged scoring
// signals the rubric cannot derive from contact data alone.
type CompileLead struct {
	normalize.Record
	LicenseVerified bool `json:"license_verified"`
	PositiveReviews bool `json:"positive_reviews"`
}

// CompileRequest carries a research session's raw findings.
type CompileRequest struct {
	Leads       []CompileLead `json:"leads" validate:"required,min=1,max=5000"`
	DataSources []string      `json:"data_sources"`
	StormEvents []string      `json:"storm_events"`
}

// ExportRequest asks for a lead batch to be written to disk.
type ExportRequest struct {
	Leads    []domain.Lead `json:"leads" validate:"required,min=1,max=5000"`
	Filename string        `json:"filename" validate:"required,min=1,max=120"`
	Format   string        `json:"format" validate:"omitempty,oneof=csv xlsx"`
}
