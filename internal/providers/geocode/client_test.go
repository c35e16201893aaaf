package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"roofleads_backend/platform/logger"
)

func TestGeocodeMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("benchmark"); got != "Public_AR_Current" {
			t.Errorf("unexpected benchmark %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"addressMatches":[{
			"matchedAddress":"1600 PENNSYLVANIA AVE NW, WASHINGTON, DC, 20500",
			"coordinates":{"x":-77.03654,"y":38.89768},
			"addressComponents":{"city":"WASHINGTON","state":"DC","zip":"20500"},
			"tigerLine":{"tigerLineId":"76225813"}
		}]}}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(logger.New("test"), srv.URL)
	result := c.Geocode(context.Background(), "1600 Pennsylvania Ave NW, Washington, DC")

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Latitude == nil || *result.Latitude != 38.89768 {
		t.Fatalf("latitude wrong: %v", result.Latitude)
	}
	if result.City == nil || *result.City != "WASHINGTON" {
		t.Fatalf("city wrong: %v", result.City)
	}
	if result.Zip == nil || *result.Zip != "20500" {
		t.Fatalf("zip wrong: %v", result.Zip)
	}
}

func TestGeocodeNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":{"addressMatches":[]}}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(logger.New("test"), srv.URL)
	result := c.Geocode(context.Background(), "nowhere at all")

	if result.Success {
		t.Fatalf("expected failure for zero matches")
	}
	if result.Error != "No address matches found" {
		t.Fatalf("unexpected error message %q", result.Error)
	}
}

func TestGeocodeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewWithBaseURL(logger.New("test"), srv.URL)
	result := c.Geocode(context.Background(), "123 Oak St")

	if result.Success {
		t.Fatalf("expected failure on upstream error")
	}
}
