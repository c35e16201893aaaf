package domain

import (
	"strings"
	"time"
)

// PropertyRecord is a candidate property pulled from an open-data portal,
// scored by age and permit history before any contact enrichment runs.
type PropertyRecord struct {
	Address        string  `json:"address"`
	City           *string `json:"city,omitempty"`
	State          *string `json:"state,omitempty"`
	ZipCode        *string `json:"zip_code,omitempty"`
	YearBuilt      *int    `json:"year_built,omitempty"`
	Sqft           *int    `json:"sqft,omitempty"`
	PropertyType   *string `json:"property_type,omitempty"`
	LastPermitDate *string `json:"last_permit_date,omitempty"`
	LastPermitType *string `json:"last_permit_type,omitempty"`
	OwnerName      *string `json:"owner_name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	DataSource     string  `json:"data_source"`
}

// RoofAgeEstimate estimates the roof's age assuming the original roof.
// Returns nil when the build year is unknown.
func (p PropertyRecord) RoofAgeEstimate() *int {
	if p.YearBuilt == nil {
		return nil
	}
	age := time.Now().Year() - *p.YearBuilt
	return &age
}

// PriorityScore ranks a property 0-100 by roof replacement likelihood.
// Base 50; older roofs score higher, recent construction and a roofing
// permit on record (already serviced) score lower.
func (p PropertyRecord) PriorityScore() int {
	score := 50

	if age := p.RoofAgeEstimate(); age != nil {
		switch {
		case *age > 25:
			score += 30
		case *age > 20:
			score += 20
		case *age > 15:
			score += 10
		case *age < 5:
			score -= 20
		}
	}

	if p.LastPermitType != nil && strings.Contains(strings.ToLower(*p.LastPermitType), "roof") {
		score -= 30
	}

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
