// Package domain holds the canonical lead model shared by every pipeline
// stage: providers feed the normalizer, the normalizer produces a Lead, the
// scorer and aggregator mutate it, and the export writer flattens it.
package domain

import (
	"fmt"
	"strings"
)

// LeadType classifies where a lead came from and how it should be worked.
type LeadType string

const (
	// LeadTypeMiddleman is a referral professional (inspector, realtor,
	// adjuster, property manager). Middlemen are only actionable by phone.
	LeadTypeMiddleman LeadType = "middleman"
	// LeadTypeStorm is a homeowner in a storm-affected area.
	LeadTypeStorm LeadType = "storm"
	// LeadTypeHomeowner is a homeowner targeted by property age.
	LeadTypeHomeowner LeadType = "homeowner"
)

// QualificationThreshold is the fixed score at or above which a lead counts
// as qualified. Not configurable per call.
const QualificationThreshold = 50

// Valid reports whether t is a known lead type.
func (t LeadType) Valid() bool {
	switch t {
	case LeadTypeMiddleman, LeadTypeStorm, LeadTypeHomeowner:
		return true
	}
	return false
}

// Lead is the canonical unit of output. Optional fields are pointers:
// nil means the source never provided a value, which the scorer and the
// export writer treat differently from an empty string.
type Lead struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Zip     *string `json:"zip,omitempty"`

	Phone *string `json:"phone,omitempty"`
	// PhoneAvailable distinguishes "enrichment ran and found nothing"
	// (false, Phone nil) from "we have a number" (true, Phone set).
	PhoneAvailable bool    `json:"phone_available"`
	Email          *string `json:"email,omitempty"`
	Website        *string `json:"website,omitempty"`

	Type      LeadType `json:"type"`
	Score     int      `json:"score"`
	Qualified bool     `json:"qualified"`
	Reason    string   `json:"reason"`

	EvidenceURLs []string `json:"evidence_urls"`
	StormContext *string  `json:"storm_context,omitempty"`
	YearBuilt    *int     `json:"year_built,omitempty"`

	Role  *string `json:"role,omitempty"`
	Notes *string `json:"notes,omitempty"`
}

// LeadsResponse is a session's aggregate result.
type LeadsResponse struct {
	Leads               []Lead   `json:"leads"`
	Summary             string   `json:"summary"`
	TotalFound          int      `json:"total_found"`
	QualifiedCount      int      `json:"qualified_count"`
	PhonesFound         int      `json:"phones_found"`
	DataSourcesUsed     []string `json:"data_sources_used"`
	StormEvents         []string `json:"storm_events"`
	SkipTraceConfigured bool     `json:"skip_trace_configured"`
}

// EvidenceDelimiter joins evidence URLs in flat exports. A pipe never
// appears inside a well-formed URL.
const EvidenceDelimiter = "|"

// LeadRow is the flat, export-ready projection of a Lead. Every field
// carries through unchanged except EvidenceURLs, which is rendered as one
// delimiter-joined string, and Zip, which exports as zip_code.
type LeadRow struct {
	Name         *string `json:"name,omitempty"`
	Type         *string `json:"type,omitempty"`
	Score        *int    `json:"score,omitempty"`
	Qualified    *bool   `json:"qualified,omitempty"`
	Reason       *string `json:"reason,omitempty"`
	EvidenceURLs *string `json:"evidence_urls,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty"`
	Website      *string `json:"website,omitempty"`
	Address      *string `json:"address,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	ZipCode      *string `json:"zip_code,omitempty"`
	StormContext *string `json:"storm_context,omitempty"`
	YearBuilt    *int    `json:"year_built,omitempty"`
	Role         *string `json:"role,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// ToRow flattens a lead for export.
func (l Lead) ToRow() LeadRow {
	typeStr := string(l.Type)
	score := l.Score
	qualified := l.Qualified
	reason := l.Reason
	joined := strings.Join(l.EvidenceURLs, EvidenceDelimiter)

	return LeadRow{
		Name:         l.Name,
		Type:         &typeStr,
		Score:        &score,
		Qualified:    &qualified,
		Reason:       &reason,
		EvidenceURLs: &joined,
		Phone:        l.Phone,
		Email:        l.Email,
		Website:      l.Website,
		Address:      l.Address,
		City:         l.City,
		State:        l.State,
		ZipCode:      l.Zip,
		StormContext: l.StormContext,
		YearBuilt:    l.YearBuilt,
		Role:         l.Role,
		Notes:        l.Notes,
	}
}

// FromRow reconstructs a Lead from its flat projection. Evidence URLs are
// recovered by splitting on the delimiter; an empty cell yields no URLs.
func FromRow(r LeadRow) Lead {
	lead := Lead{
		Name:         r.Name,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		Zip:          r.ZipCode,
		Phone:        r.Phone,
		Email:        r.Email,
		Website:      r.Website,
		StormContext: r.StormContext,
		YearBuilt:    r.YearBuilt,
		Role:         r.Role,
		Notes:        r.Notes,
	}
	if r.Type != nil {
		lead.Type = LeadType(*r.Type)
	}
	if r.Score != nil {
		lead.Score = *r.Score
	}
	if r.Qualified != nil {
		lead.Qualified = *r.Qualified
	}
	if r.Reason != nil {
		lead.Reason = *r.Reason
	}
	if r.EvidenceURLs != nil && *r.EvidenceURLs != "" {
		lead.EvidenceURLs = strings.Split(*r.EvidenceURLs, EvidenceDelimiter)
	}
	lead.PhoneAvailable = lead.Phone != nil && *lead.Phone != ""
	return lead
}

// ValidateLead checks the lead invariants. Violations that make the lead
// unusable come back as errors; a middleman without a phone is a defect in
// the producing step but the lead is still kept, so it comes back as a
// warning for the caller to log.
func ValidateLead(l Lead) (errs []error, warnings []string) {
	if l.Score < 0 || l.Score > 100 {
		errs = append(errs, fmt.Errorf("score %d outside [0,100]", l.Score))
	}
	if l.Qualified != (l.Score >= QualificationThreshold) {
		errs = append(errs, fmt.Errorf("qualified=%t inconsistent with score %d", l.Qualified, l.Score))
	}
	if !l.Type.Valid() {
		errs = append(errs, fmt.Errorf("unknown lead type %q", l.Type))
	}
	if !l.PhoneAvailable && l.Phone != nil && *l.Phone != "" {
		errs = append(errs, fmt.Errorf("phone_available=false with phone %q set", *l.Phone))
	}
	if l.Reason == "" {
		errs = append(errs, fmt.Errorf("reason must be populated"))
	}
	for _, u := range l.EvidenceURLs {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			errs = append(errs, fmt.Errorf("evidence url %q is not a resolvable http(s) url", u))
		}
	}
	if l.Type == LeadTypeMiddleman && (l.Phone == nil || *l.Phone == "") {
		warnings = append(warnings, "middleman lead without phone number")
	}
	return errs, warnings
}
