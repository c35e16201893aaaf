// Package skiptrace resolves property addresses to owner contact details
// through pluggable paid vendors. When no vendor credential is present every
// call degrades to a graceful unconfigured result instead of an error.
package skiptrace

import (
	"context"
	"fmt"
	"time"

	"roofleads_backend/internal/config"
	"roofleads_backend/platform/logger"
)

const defaultHTTPTimeout = 30 * time.Second

// Address identifies one property to trace.
type Address struct {
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zip_code"`
}

func (a Address) String() string {
	return fmt.Sprintf("%s, %s, %s %s", a.Address, a.City, a.State, a.ZipCode)
}

// Result is the outcome of tracing one address. Configured=false means no
// vendor credential was available, which is distinct from a vendor miss.
type Result struct {
	Success    bool     `json:"success"`
	Address    string   `json:"address"`
	OwnerName  *string  `json:"owner_name,omitempty"`
	Phone      *string  `json:"phone,omitempty"`
	PhoneType  *string  `json:"phone_type,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Provider   string   `json:"provider,omitempty"`
	Error      string   `json:"error,omitempty"`
	Configured bool     `json:"configured"`
}

// BatchResult aggregates a sequential batch run.
type BatchResult struct {
	Success        bool     `json:"success"`
	TotalRequested int      `json:"total_requested"`
	TotalFound     int      `json:"total_found"`
	Results        []Result `json:"results"`
	Error          string   `json:"error,omitempty"`
	Configured     bool     `json:"configured"`
}

// Provider is one skip trace vendor.
type Provider interface {
	Name() string
	Trace(ctx context.Context, addr Address) Result
}

// Service routes trace calls to the configured vendor.
type Service struct {
	provider Provider
	log      *logger.Logger
}

// NewService picks a vendor from configuration. An explicit provider choice
// with a usable key wins; otherwise any vendor with a key is used; with no
// keys the service stays in unconfigured mode.
func NewService(cfg *config.Config, log *logger.Logger) *Service {
	svc := &Service{log: log}

	batch := NewBatchData(cfg.BatchSkipKey, log)
	rei := NewREISkip(cfg.REISkipKey, log)

	switch {
	case cfg.SkipTraceProvider == "batchskiptracing" && cfg.BatchSkipKey != "":
		svc.provider = batch
	case cfg.SkipTraceProvider == "reiskip" && cfg.REISkipKey != "":
		svc.provider = rei
	case cfg.BatchSkipKey != "":
		svc.provider = batch
	case cfg.REISkipKey != "":
		svc.provider = rei
	}

	return svc
}

// NewServiceWithProvider injects a vendor directly. Used in tests.
func NewServiceWithProvider(p Provider, log *logger.Logger) *Service {
	return &Service{provider: p, log: log}
}

// Configured reports whether a vendor is wired.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// Trace resolves one address. Never returns an error; failures are carried
// inside the result so batch runs keep going.
func (s *Service) Trace(ctx context.Context, addr Address) Result {
	if s.provider == nil {
		return Result{
			Success:    false,
			Address:    addr.String(),
			Error:      "No skip trace provider configured. Set SKIP_TRACE_PROVIDER and API key in .env",
			Configured: false,
		}
	}

	start := time.Now()
	result := s.provider.Trace(ctx, addr)
	s.log.ProviderCall(s.provider.Name(), "skip_trace", result.Success, float64(time.Since(start).Milliseconds()))
	return result
}

// TraceBatch runs traces sequentially to respect vendor rate limits. If any
// trace reports unconfigured the whole batch counts as unconfigured.
func (s *Service) TraceBatch(ctx context.Context, addrs []Address) BatchResult {
	if len(addrs) == 0 {
		return BatchResult{
			Success:    false,
			Configured: true,
			Results:    []Result{},
			Error:      "No properties provided",
		}
	}

	batch := BatchResult{
		TotalRequested: len(addrs),
		Results:        make([]Result, 0, len(addrs)),
		Configured:     true,
	}

	for _, addr := range addrs {
		if ctx.Err() != nil {
			batch.Error = ctx.Err().Error()
			break
		}
		result := s.Trace(ctx, addr)
		batch.Results = append(batch.Results, result)
		if result.Success && result.Phone != nil {
			batch.TotalFound++
		}
		if !result.Configured {
			batch.Configured = false
		}
	}

	batch.Success = batch.Configured
	if !batch.Configured {
		batch.Error = "Skip trace provider not configured"
	}
	return batch
}
