// Package normalize turns heterogeneous provider records into canonical
// leads. Every provider quirk (zip vs zip_code, empty strings standing in
// for missing values) is absorbed here so downstream stages see one shape.
package normalize

import (
	"encoding/json"
	"strings"

	"roofleads_backend/internal/leads/domain"
	"roofleads_backend/internal/providers/search"
	"roofleads_backend/internal/providers/skiptrace"
	"roofleads_backend/platform/phone"
)

// Record is the loose inbound shape. Providers disagree on the zip field
// name, so both spellings are accepted and zip_code wins when both appear.
type Record struct {
	Name         *string         `json:"name,omitempty"`
	Address      *string         `json:"address,omitempty"`
	City         *string         `json:"city,omitempty"`
	State        *string         `json:"state,omitempty"`
	Zip          *string         `json:"zip,omitempty"`
	ZipCode      *string         `json:"zip_code,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	Email        *string         `json:"email,omitempty"`
	Website      *string         `json:"website,omitempty"`
	Type         domain.LeadType `json:"type"`
	EvidenceURLs []string        `json:"evidence_urls,omitempty"`
	StormContext *string         `json:"storm_context,omitempty"`
	YearBuilt    *int            `json:"year_built,omitempty"`
	Role         *string         `json:"role,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
}

// ParseRecord decodes one loose JSON record.
func ParseRecord(raw []byte) (Record, error) {
	var r Record
	err := json.Unmarshal(raw, &r)
	return r, err
}

// Lead converts a record to a canonical lead. Empty strings collapse to nil,
// phones are formatted to E.164 when parseable, evidence URLs keep their
// order and duplicates, and PhoneAvailable is true exactly when a phone
// survives normalization.
func Lead(r Record) domain.Lead {
	lead := domain.Lead{
		Name:         clean(r.Name),
		Address:      clean(r.Address),
		City:         clean(r.City),
		State:        clean(r.State),
		Zip:          firstPresent(r.ZipCode, r.Zip),
		Email:        clean(r.Email),
		Website:      clean(r.Website),
		Type:         r.Type,
		StormContext: clean(r.StormContext),
		YearBuilt:    r.YearBuilt,
		Role:         clean(r.Role),
		Notes:        clean(r.Notes),
	}

	if p := clean(r.Phone); p != nil {
		formatted := phone.NormalizeE164(*p)
		lead.Phone = &formatted
		lead.PhoneAvailable = true
	}

	if len(r.EvidenceURLs) > 0 {
		lead.EvidenceURLs = make([]string, 0, len(r.EvidenceURLs))
		for _, u := range r.EvidenceURLs {
			if trimmed := strings.TrimSpace(u); trimmed != "" {
				lead.EvidenceURLs = append(lead.EvidenceURLs, trimmed)
			}
		}
	}

	return lead
}

// FromProperty builds a homeowner record from an open-data property.
func FromProperty(p domain.PropertyRecord) Record {
	r := Record{
		Name:      p.OwnerName,
		Address:   strPtr(p.Address),
		City:      p.City,
		State:     p.State,
		ZipCode:   p.ZipCode,
		Phone:     p.Phone,
		Email:     p.Email,
		Type:      domain.LeadTypeHomeowner,
		YearBuilt: p.YearBuilt,
	}
	if p.DataSource != "" {
		r.EvidenceURLs = []string{p.DataSource}
	}
	return r
}

// FromBusiness builds a middleman record from a business search result.
func FromBusiness(b search.BusinessResult, role string) Record {
	r := Record{
		Name:    strPtr(b.Name),
		Address: b.Address,
		City:    b.City,
		State:   b.State,
		Phone:   b.Phone,
		Email:   b.Email,
		Website: b.Website,
		Type:    domain.LeadTypeMiddleman,
		Role:    strPtr(role),
		Notes:   b.Description,
	}
	if b.Source != nil && *b.Source != "" {
		r.EvidenceURLs = []string{*b.Source}
	}
	return r
}

// ApplySkipTrace folds skip trace contact details into a record, filling
// only the gaps so provider data keeps precedence.
func ApplySkipTrace(r Record, result skiptrace.Result) Record {
	if !result.Success {
		return r
	}
	if r.Phone == nil && result.Phone != nil {
		r.Phone = result.Phone
	}
	if r.Email == nil && result.Email != nil {
		r.Email = result.Email
	}
	if r.Name == nil && result.OwnerName != nil {
		r.Name = result.OwnerName
	}
	return r
}

// clean maps whitespace-only and empty strings to nil and trims the rest.
func clean(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func firstPresent(candidates ...*string) *string {
	for _, c := range candidates {
		if cleaned := clean(c); cleaned != nil {
			return cleaned
		}
	}
	return nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
