package aggregate

import (
	"reflect"
	"testing"

	"roofleads_backend/internal/leads/domain"
)

func strPtr(s string) *string { return &s }

func lead(name, phone string, score int) domain.Lead {
	l := domain.Lead{Score: score, Qualified: score >= domain.QualificationThreshold}
	if name != "" {
		l.Name = &name
	}
	if phone != "" {
		l.Phone = &phone
		l.PhoneAvailable = true
	}
	return l
}

func TestDeduplicateMergesSameNameAndPhone(t *testing.T) {
	a := lead("Acme Inspections", "(512) 555-1234", 60)
	a.EvidenceURLs = []string{"https://a.example"}
	b := lead("acme  inspections", "+15125551234", 80)
	b.EvidenceURLs = []string{"https://b.example", "https://a.example"}
	b.Website = strPtr("https://acme.example")

	out := Deduplicate([]domain.Lead{a, b})

	if len(out) != 1 {
		t.Fatalf("expected 1 lead after dedupe, got %d", len(out))
	}
	merged := out[0]
	if merged.Score != 80 {
		t.Fatalf("higher score must win, got %d", merged.Score)
	}
	if merged.Website == nil || *merged.Website != "https://acme.example" {
		t.Fatalf("nil fields must be filled from duplicate")
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(merged.EvidenceURLs, want) {
		t.Fatalf("evidence union wrong: %v", merged.EvidenceURLs)
	}
}

func TestDeduplicateFallsBackToAddress(t *testing.T) {
	a := domain.Lead{Address: strPtr("123 Oak St"), City: strPtr("Austin"), State: strPtr("TX"), Score: 40}
	b := domain.Lead{Address: strPtr("123 oak st"), City: strPtr("Austin"), State: strPtr("TX"), Score: 55, Qualified: true}

	out := Deduplicate([]domain.Lead{a, b})
	if len(out) != 1 {
		t.Fatalf("expected address-keyed dedupe, got %d leads", len(out))
	}
	if out[0].Score != 55 || !out[0].Qualified {
		t.Fatalf("merge must carry the higher scoring fields: %+v", out[0])
	}
}

func TestDeduplicateMergesNamelessLeadsByPhone(t *testing.T) {
	a := lead("", "(512) 555-1234", 40)
	b := lead("", "+15125551234", 70)
	b.Email = strPtr("owner@example.com")

	out := Deduplicate([]domain.Lead{a, b})
	if len(out) != 1 {
		t.Fatalf("a shared phone identifies one contact even without a name, got %d leads", len(out))
	}
	if out[0].Score != 70 || out[0].Email == nil {
		t.Fatalf("merge must behave as for named leads: %+v", out[0])
	}
}

func TestDeduplicateKeepsDistinctLeads(t *testing.T) {
	out := Deduplicate([]domain.Lead{
		lead("Acme", "5125551234", 60),
		lead("Zenith", "5125559999", 60),
	})
	if len(out) != 2 {
		t.Fatalf("distinct leads must not merge, got %d", len(out))
	}
}

func TestDeduplicateAnonymousLeadsNeverCollide(t *testing.T) {
	out := Deduplicate([]domain.Lead{{Score: 10}, {Score: 20}})
	if len(out) != 2 {
		t.Fatalf("leads without identity must not merge, got %d", len(out))
	}
}

func TestDeduplicateIsIdempotent(t *testing.T) {
	input := []domain.Lead{
		lead("Acme", "5125551234", 60),
		lead("Acme", "+1 512 555 1234", 75),
		lead("Zenith", "5125559999", 50),
	}

	once := Deduplicate(input)
	twice := Deduplicate(once)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("dedupe not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestBuildResponseRecomputesCounters(t *testing.T) {
	leads := []domain.Lead{
		lead("Acme", "5125551234", 60),
		lead("Acme", "5125551234", 80),
		lead("Zenith", "", 30),
	}

	resp := BuildResponse(leads, []string{"nws", "socrata", "nws"}, []string{"Hail"}, true)

	if resp.TotalFound != 2 {
		t.Fatalf("expected 2 deduped leads, got %d", resp.TotalFound)
	}
	if resp.QualifiedCount != 1 {
		t.Fatalf("expected 1 qualified, got %d", resp.QualifiedCount)
	}
	if resp.PhonesFound != 1 {
		t.Fatalf("expected 1 phone, got %d", resp.PhonesFound)
	}
	if !reflect.DeepEqual(resp.DataSourcesUsed, []string{"nws", "socrata"}) {
		t.Fatalf("data sources not deduplicated: %v", resp.DataSourcesUsed)
	}
	if !resp.SkipTraceConfigured {
		t.Fatalf("skip trace flag must pass through")
	}
	if resp.Summary == "" {
		t.Fatalf("summary must be populated")
	}
}
