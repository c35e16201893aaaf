package opendata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roofleads_backend/platform/logger"
)

func TestFindDatasetKnownCity(t *testing.T) {
	result := FindDataset("Austin, TX", "building_permits")

	if !result.Found {
		t.Fatalf("austin must resolve: %+v", result)
	}
	if result.Portal == nil || *result.Portal != "data.austintexas.gov" {
		t.Fatalf("portal wrong: %v", result.Portal)
	}
	if result.APIBase == nil || *result.APIBase != "https://data.austintexas.gov/resource/" {
		t.Fatalf("api base wrong: %v", result.APIBase)
	}
	if len(result.SuggestedKeywords) == 0 || result.SuggestedKeywords[0] != "building permit" {
		t.Fatalf("keywords wrong: %v", result.SuggestedKeywords)
	}
}

func TestFindDatasetSubstringMatch(t *testing.T) {
	if result := FindDataset("City of Chicago", "assessor"); !result.Found {
		t.Fatalf("substring jurisdiction must match: %+v", result)
	}
}

func TestFindDatasetUnknownCity(t *testing.T) {
	result := FindDataset("Smallville, KS", "parcels")

	if result.Found {
		t.Fatalf("unknown city must miss")
	}
	if result.Suggestion == nil || !strings.Contains(*result.Suggestion, "Smallville, KS") {
		t.Fatalf("miss must suggest a manual search: %v", result.Suggestion)
	}
	if len(result.CommonPortals) != maxPortalSuggestions {
		t.Fatalf("expected %d portal suggestions, got %d", maxPortalSuggestions, len(result.CommonPortals))
	}
	if result.CommonPortals[0] != "austin" || result.CommonPortals[1] != "houston" {
		t.Fatalf("portal suggestions must keep directory order, got %v", result.CommonPortals[:2])
	}
}

func TestFindDatasetFirstMatchWins(t *testing.T) {
	result := FindDataset("Austin and Houston metro", "building_permits")
	if !result.Found || result.Portal == nil || *result.Portal != "data.austintexas.gov" {
		t.Fatalf("directory order decides ties, got %+v", result)
	}
}

func TestFindDatasetUnknownTypeFallsBackToLiteral(t *testing.T) {
	result := FindDataset("Austin", "demolitions")
	if len(result.SuggestedKeywords) != 1 || result.SuggestedKeywords[0] != "demolitions" {
		t.Fatalf("unknown dataset type must be used literally: %v", result.SuggestedKeywords)
	}
}

func TestQueryTruncatesInlineRecords(t *testing.T) {
	records := make([]map[string]any, 30)
	for i := range records {
		records[i] = map[string]any{"address": fmt.Sprintf("%d Oak St", i)}
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("$where"); got != "year_built < 2000" {
			t.Errorf("where clause not forwarded, got %q", got)
		}
		if got := r.URL.Query().Get("$order"); got != "year_built ASC" {
			t.Errorf("order clause not forwarded, got %q", got)
		}
		json.NewEncoder(w).Encode(records)
	}))
	defer srv.Close()

	c := NewClient(logger.New("test"))
	result := c.Query(context.Background(), srv.URL, "year_built < 2000", "year_built ASC", 100)

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.Count != 30 {
		t.Fatalf("count must reflect all fetched records, got %d", result.Count)
	}

	var inline []map[string]any
	if err := json.Unmarshal([]byte(result.RecordsJSON), &inline); err != nil {
		t.Fatalf("records_json not valid JSON: %v", err)
	}
	if len(inline) != inlineRecordCap {
		t.Fatalf("inline records must cap at %d, got %d", inlineRecordCap, len(inline))
	}
	if result.Note == nil || !strings.Contains(*result.Note, "first 20 of 30") {
		t.Fatalf("truncation note missing: %v", result.Note)
	}
}

func TestQueryUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(logger.New("test"))
	result := c.Query(context.Background(), srv.URL, "", "", 10)
	if result.Success {
		t.Fatalf("upstream error must fail the query")
	}
	if result.RecordsJSON != "[]" {
		t.Fatalf("failed query must keep records_json a valid empty array")
	}
}

func TestBulkSearchUnknownCity(t *testing.T) {
	b := NewBulkSearcher(nil, t.TempDir(), logger.New("test"))
	result := b.Search(context.Background(), BulkRequest{City: "Smallville", State: "KS", YearBefore: 2005})

	if result.Success {
		t.Fatalf("unknown city must fail")
	}
	if !strings.Contains(result.Error, "Smallville") {
		t.Fatalf("error must name the city: %q", result.Error)
	}
}

func TestRecordToPropertyFieldDrift(t *testing.T) {
	ds := PropertyDataset{AddressField: "situs_address", YearField: "year_built"}
	record := map[string]any{
		"situs_address": "123 Oak St",
		"year_built":    "1987.0",
		"land_use":      "residential",
		"living_area":   float64(1650),
	}

	p := recordToProperty(record, ds, "Houston", "TX", "https://portal/resource/x.json")

	if p.Address != "123 Oak St" {
		t.Fatalf("address field mapping wrong: %q", p.Address)
	}
	if p.YearBuilt == nil || *p.YearBuilt != 1987 {
		t.Fatalf("string year must parse, got %v", p.YearBuilt)
	}
	if p.City == nil || *p.City != "Houston" {
		t.Fatalf("missing city must fall back to the request city")
	}
	if p.PropertyType == nil || *p.PropertyType != "residential" {
		t.Fatalf("land_use fallback wrong: %v", p.PropertyType)
	}
	if p.Sqft == nil || *p.Sqft != 1650 {
		t.Fatalf("living_area fallback wrong: %v", p.Sqft)
	}
}

func TestKnownPropertyCities(t *testing.T) {
	cities := KnownPropertyCities()
	if len(cities) == 0 {
		t.Fatalf("embedded dataset directory must not be empty")
	}
	found := false
	for _, c := range cities {
		if c == "austin" {
			found = true
		}
	}
	if !found {
		t.Fatalf("austin must be registered, got %v", cities)
	}
}
