// Package scoring grades leads with a deterministic additive rubric.
package scoring

import (
	"strings"

	"roofleads_backend/internal/leads/domain"
)

// rubricVersion tracks the scoring model for debugging and analysis.
// Bump this when changing scoring logic significantly.
const rubricVersion = "2026-v1"

// RubricWeights defines how many points each contact-completeness signal is
// worth. The rubric is a policy constant, not derived data: changing the
// weights is a configuration change, so they live in one named, swappable
// value rather than scattered literals.
type RubricWeights struct {
	Phone           int
	Email           int
	Address         int
	Website         int
	LicenseVerified int
	PositiveReviews int
}

// DefaultRubric is the production weight table.
var DefaultRubric = RubricWeights{
	Phone:           40,
	Email:           10,
	Address:         10,
	Website:         10,
	LicenseVerified: 15,
	PositiveReviews: 15,
}

// Signals carries the externally judged inputs the rubric cannot compute
// itself. License verification and review presence are decided by the
// orchestrator and supplied as booleans.
type Signals struct {
	LicenseVerified bool
	PositiveReviews bool
}

// Result holds scoring output.
type Result struct {
	Score     int
	Qualified bool
	Reason    string
	Version   string
}

// Scorer applies a weight table to leads. The zero value is unusable; use New.
type Scorer struct {
	weights RubricWeights
}

// New creates a scorer with the given weight table.
func New(weights RubricWeights) *Scorer {
	return &Scorer{weights: weights}
}

// Score grades a single lead. The lead itself is not modified; callers apply
// the result with Apply.
func (s *Scorer) Score(lead domain.Lead, signals Signals) Result {
	score := 0
	var present, missing []string

	if hasValue(lead.Phone) {
		score += s.weights.Phone
		present = append(present, "phone")
	} else {
		missing = append(missing, "phone")
	}
	if hasValue(lead.Email) {
		score += s.weights.Email
		present = append(present, "email")
	}
	if hasValue(lead.Address) {
		score += s.weights.Address
		present = append(present, "address")
	}
	if hasValue(lead.Website) {
		score += s.weights.Website
		present = append(present, "website")
	}
	if signals.LicenseVerified {
		score += s.weights.LicenseVerified
		present = append(present, "verified license")
	} else {
		missing = append(missing, "license verification")
	}
	if signals.PositiveReviews {
		score += s.weights.PositiveReviews
		present = append(present, "positive reviews")
	}

	score = clampScore(score)

	return Result{
		Score:     score,
		Qualified: score >= domain.QualificationThreshold,
		Reason:    buildReason(present, missing),
		Version:   rubricVersion,
	}
}

// Apply writes a result onto a lead and returns the updated copy.
func Apply(lead domain.Lead, r Result) domain.Lead {
	lead.Score = r.Score
	lead.Qualified = r.Qualified
	lead.Reason = r.Reason
	return lead
}

// buildReason names the signals that drove the decision, e.g.
// "phone + address + website, no license verification".
func buildReason(present, missing []string) string {
	if len(present) == 0 {
		return "no scoring signals present"
	}
	reason := strings.Join(present, " + ")
	if len(missing) > 0 {
		reason += ", no " + strings.Join(missing, " or ")
	}
	return reason
}

func hasValue(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
