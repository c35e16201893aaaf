package scoring

import (
	"strings"
	"testing"

	"roofleads_backend/internal/leads/domain"
)

func strPtr(s string) *string { return &s }

func TestScoreFullContactQualifies(t *testing.T) {
	s := New(DefaultRubric)

	lead := domain.Lead{
		Phone:   strPtr("+15125551234"),
		Email:   strPtr("owner@example.com"),
		Address: strPtr("123 Oak St"),
		Website: strPtr("https://example.com"),
	}
	result := s.Score(lead, Signals{LicenseVerified: true, PositiveReviews: true})

	if result.Score != 100 {
		t.Fatalf("expected score 100, got %d", result.Score)
	}
	if !result.Qualified {
		t.Fatalf("expected qualified lead")
	}
}

func TestScorePhoneAndAddressQualifies(t *testing.T) {
	s := New(DefaultRubric)

	lead := domain.Lead{
		Phone:   strPtr("+15125551234"),
		Address: strPtr("123 Oak St"),
	}
	result := s.Score(lead, Signals{})

	if result.Score != 50 {
		t.Fatalf("expected score 50, got %d", result.Score)
	}
	if !result.Qualified {
		t.Fatalf("score 50 must qualify, threshold is inclusive")
	}
}

func TestScoreEmailOnlyDoesNotQualify(t *testing.T) {
	s := New(DefaultRubric)

	result := s.Score(domain.Lead{Email: strPtr("owner@example.com")}, Signals{})

	if result.Score != 10 {
		t.Fatalf("expected score 10, got %d", result.Score)
	}
	if result.Qualified {
		t.Fatalf("score 10 must not qualify")
	}
}

func TestScoreWhitespaceFieldsCountAsMissing(t *testing.T) {
	s := New(DefaultRubric)

	result := s.Score(domain.Lead{Phone: strPtr("   ")}, Signals{})

	if result.Score != 0 {
		t.Fatalf("whitespace phone must score 0, got %d", result.Score)
	}
}

func TestScoreReasonNamesSignals(t *testing.T) {
	s := New(DefaultRubric)

	lead := domain.Lead{
		Phone:   strPtr("+15125551234"),
		Address: strPtr("123 Oak St"),
		Website: strPtr("https://example.com"),
	}
	result := s.Score(lead, Signals{})

	for _, want := range []string{"phone", "address", "website", "no"} {
		if !strings.Contains(result.Reason, want) {
			t.Fatalf("reason %q missing %q", result.Reason, want)
		}
	}
}

func TestScoreNoSignals(t *testing.T) {
	s := New(DefaultRubric)

	result := s.Score(domain.Lead{}, Signals{})

	if result.Score != 0 || result.Qualified {
		t.Fatalf("empty lead must score 0 unqualified, got %d/%t", result.Score, result.Qualified)
	}
	if result.Reason == "" {
		t.Fatalf("reason must be populated even with no signals")
	}
}

func TestApplyWritesScoringFields(t *testing.T) {
	lead := domain.Lead{Phone: strPtr("+15125551234")}
	updated := Apply(lead, Result{Score: 72, Qualified: true, Reason: "phone + license"})

	if updated.Score != 72 || !updated.Qualified || updated.Reason != "phone + license" {
		t.Fatalf("apply did not persist result: %+v", updated)
	}
}
