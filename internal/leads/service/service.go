// Package service runs the lead compilation pipeline: normalize, score,
// deduplicate, summarize.
package service

import (
	"context"

	"roofleads_backend/internal/export"
	"roofleads_backend/internal/leads/aggregate"
	"roofleads_backend/internal/leads/domain"
	"roofleads_backend/internal/leads/normalize"
	"roofleads_backend/internal/leads/scoring"
	"roofleads_backend/internal/leads/transport"
	"roofleads_backend/platform/logger"
)

// Service owns the compile and export operations.
type Service struct {
	scorer              *scoring.Scorer
	writer              *export.Writer
	skipTraceConfigured func() bool
	log                 *logger.Logger
}

func New(scorer *scoring.Scorer, writer *export.Writer, skipTraceConfigured func() bool, log *logger.Logger) *Service {
	return &Service{
		scorer:              scorer,
		writer:              writer,
		skipTraceConfigured: skipTraceConfigured,
		log:                 log,
	}
}

// Compile normalizes and scores every inbound record, then deduplicates the
// batch into the session response. Invalid leads are dropped and logged, not
// fatal: one bad record must never sink a batch.
func (s *Service) Compile(ctx context.Context, req transport.CompileRequest) domain.LeadsResponse {
	leads := make([]domain.Lead, 0, len(req.Leads))

	for i, in := range req.Leads {
		lead := normalize.Lead(in.Record)
		result := s.scorer.Score(lead, scoring.Signals{
			LicenseVerified: in.LicenseVerified,
			PositiveReviews: in.PositiveReviews,
		})
		lead = scoring.Apply(lead, result)

		errs, warnings := domain.ValidateLead(lead)
		for _, w := range warnings {
			s.log.Warn("lead validation warning", "index", i, "warning", w)
		}
		if len(errs) > 0 {
			s.log.Error("dropping invalid lead", "index", i, "error", errs[0])
			continue
		}
		leads = append(leads, lead)
	}

	resp := aggregate.BuildResponse(leads, req.DataSources, req.StormEvents, s.skipTraceConfigured())
	s.log.Info("compiled lead batch",
		"input", len(req.Leads),
		"output", resp.TotalFound,
		"qualified", resp.QualifiedCount,
		"phones", resp.PhonesFound,
	)
	return resp
}

// Export flattens a lead batch and writes it to disk in the requested
// format. Format defaults to CSV.
func (s *Service) Export(ctx context.Context, req transport.ExportRequest) export.Result {
	format := req.Format
	if format == "" {
		format = export.FormatCSV
	}

	rows := make([]domain.LeadRow, 0, len(req.Leads))
	for _, lead := range req.Leads {
		rows = append(rows, lead.ToRow())
	}

	return s.writer.Write(rows, req.Filename, format)
}
