package normalize

import (
	"reflect"
	"testing"

	"roofleads_backend/internal/leads/domain"
	"roofleads_backend/internal/providers/search"
	"roofleads_backend/internal/providers/skiptrace"
)

func TestLeadEmptyStringsBecomeNil(t *testing.T) {
	lead := Lead(Record{
		Name:  strPtr("  "),
		Email: strPtr(""),
		City:  strPtr("Austin"),
		Type:  domain.LeadTypeHomeowner,
	})

	if lead.Name != nil || lead.Email != nil {
		t.Fatalf("empty strings must normalize to nil: %+v", lead)
	}
	if lead.City == nil || *lead.City != "Austin" {
		t.Fatalf("populated fields must survive")
	}
}

func TestLeadZipCodeWinsOverZip(t *testing.T) {
	lead := Lead(Record{Zip: strPtr("78701"), ZipCode: strPtr("78702")})
	if lead.Zip == nil || *lead.Zip != "78702" {
		t.Fatalf("zip_code must take precedence, got %v", lead.Zip)
	}

	lead = Lead(Record{Zip: strPtr("78701")})
	if lead.Zip == nil || *lead.Zip != "78701" {
		t.Fatalf("zip must carry through when zip_code is absent, got %v", lead.Zip)
	}
}

func TestLeadPhoneAvailability(t *testing.T) {
	withPhone := Lead(Record{Phone: strPtr("(512) 555-1234")})
	if !withPhone.PhoneAvailable {
		t.Fatalf("phone_available must be true when a phone is present")
	}
	if withPhone.Phone == nil || *withPhone.Phone != "+15125551234" {
		t.Fatalf("phone must normalize to E.164, got %v", withPhone.Phone)
	}

	withoutPhone := Lead(Record{Phone: strPtr("  ")})
	if withoutPhone.PhoneAvailable || withoutPhone.Phone != nil {
		t.Fatalf("blank phone must leave phone_available false")
	}
}

func TestLeadEvidenceURLsKeepOrderAndDuplicates(t *testing.T) {
	urls := []string{"https://b.example", "https://a.example", "https://b.example"}
	lead := Lead(Record{EvidenceURLs: urls})

	if !reflect.DeepEqual(lead.EvidenceURLs, urls) {
		t.Fatalf("evidence urls must keep order and duplicates: %v", lead.EvidenceURLs)
	}
}

func TestParseRecordAcceptsLooseJSON(t *testing.T) {
	raw := []byte(`{"name":"Acme","zip":"78701","type":"middleman","evidence_urls":["https://a.example"]}`)
	rec, err := ParseRecord(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if rec.Name == nil || *rec.Name != "Acme" {
		t.Fatalf("name not parsed: %+v", rec)
	}

	lead := Lead(rec)
	if lead.Zip == nil || *lead.Zip != "78701" {
		t.Fatalf("zip mapping lost in parse: %+v", lead)
	}
}

func TestFromProperty(t *testing.T) {
	year := 1987
	p := domain.PropertyRecord{
		Address:    "123 Oak St",
		City:       strPtr("Austin"),
		State:      strPtr("TX"),
		ZipCode:    strPtr("78701"),
		YearBuilt:  &year,
		DataSource: "https://data.austintexas.gov/resource/5bx7-5kqc.json",
	}

	lead := Lead(FromProperty(p))

	if lead.Type != domain.LeadTypeHomeowner {
		t.Fatalf("property leads are homeowner type, got %q", lead.Type)
	}
	if lead.YearBuilt == nil || *lead.YearBuilt != 1987 {
		t.Fatalf("year_built lost")
	}
	if len(lead.EvidenceURLs) != 1 || lead.EvidenceURLs[0] != p.DataSource {
		t.Fatalf("data source must become evidence: %v", lead.EvidenceURLs)
	}
}

func TestFromBusiness(t *testing.T) {
	b := search.BusinessResult{
		Name:    "Acme Inspections",
		Phone:   strPtr("512-555-1234"),
		Website: strPtr("https://acme.example"),
		Source:  strPtr("https://yelp.example/acme"),
	}

	lead := Lead(FromBusiness(b, "home inspector"))

	if lead.Type != domain.LeadTypeMiddleman {
		t.Fatalf("business leads are middleman type, got %q", lead.Type)
	}
	if lead.Role == nil || *lead.Role != "home inspector" {
		t.Fatalf("role not set: %v", lead.Role)
	}
	if !lead.PhoneAvailable {
		t.Fatalf("phone_available must be set from business phone")
	}
}

func TestApplySkipTraceFillsOnlyGaps(t *testing.T) {
	rec := Record{Phone: strPtr("512-555-0000")}
	result := skiptrace.Result{
		Success:   true,
		Phone:     strPtr("512-555-9999"),
		OwnerName: strPtr("Jane Smith"),
		Email:     strPtr("jane@example.com"),
	}

	out := ApplySkipTrace(rec, result)

	if *out.Phone != "512-555-0000" {
		t.Fatalf("existing phone must keep precedence, got %s", *out.Phone)
	}
	if out.Name == nil || *out.Name != "Jane Smith" {
		t.Fatalf("missing name must be filled")
	}

	failed := ApplySkipTrace(Record{}, skiptrace.Result{Success: false, Phone: strPtr("1")})
	if failed.Phone != nil {
		t.Fatalf("failed trace must not contribute fields")
	}
}
