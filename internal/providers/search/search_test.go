package search

import (
	"strings"
	"testing"
)

func TestBuildPlanQueryCount(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{3, 3},    // floor
		{10, 3},   // 10/3 = 3
		{15, 5},   // 15/3 = 5
		{100, 10}, // capped at the pattern list
	}
	for _, tc := range cases {
		plan := BuildPlan("home inspector", "Austin", "TX", tc.count)
		if len(plan.QueriesUsed) != tc.want {
			t.Errorf("count %d: expected %d queries, got %d", tc.count, tc.want, len(plan.QueriesUsed))
		}
	}
}

func TestBuildPlanInterpolation(t *testing.T) {
	plan := BuildPlan("realtor", "Dallas", "TX", 10)

	if plan.Location != "Dallas, TX" {
		t.Fatalf("location wrong: %q", plan.Location)
	}
	if plan.QueriesUsed[0] != "realtor in Dallas, TX" {
		t.Fatalf("first query wrong: %q", plan.QueriesUsed[0])
	}
	for _, q := range plan.QueriesUsed {
		if !strings.Contains(q, "realtor") {
			t.Fatalf("query %q missing profession", q)
		}
	}

	noState := BuildPlan("realtor", "Dallas", "", 10)
	if noState.Location != "Dallas" {
		t.Fatalf("empty state must not add a comma: %q", noState.Location)
	}
}

func TestExtractPhone(t *testing.T) {
	text := "Call us at (512) 555-1234 or visit our office."
	phone := ExtractPhone(text)
	if phone == nil || *phone != "(512) 555-1234" {
		t.Fatalf("phone extraction wrong: %v", phone)
	}
}

func TestExtractPhoneSkipsShortNumbers(t *testing.T) {
	if phone := ExtractPhone("Established in 1987, suite 204."); phone != nil {
		t.Fatalf("years and suite numbers must not match, got %q", *phone)
	}
}

func TestExtractEmail(t *testing.T) {
	email := ExtractEmail("Contact info@acme-inspections.com for details")
	if email == nil || *email != "info@acme-inspections.com" {
		t.Fatalf("email extraction wrong: %v", email)
	}
	if ExtractEmail("no email here") != nil {
		t.Fatalf("no match must return nil")
	}
}

func TestExtractURL(t *testing.T) {
	url := ExtractURL("See https://acme.example/services?ref=1 for pricing")
	if url == nil || *url != "https://acme.example/services?ref=1" {
		t.Fatalf("url extraction wrong: %v", url)
	}
	if ExtractURL("acme.example without scheme") != nil {
		t.Fatalf("schemeless text must not match")
	}
}
