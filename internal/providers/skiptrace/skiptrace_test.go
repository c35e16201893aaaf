package skiptrace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"roofleads_backend/internal/config"
	"roofleads_backend/platform/logger"
)

var testAddr = Address{Address: "123 Oak St", City: "Austin", State: "TX", ZipCode: "78701"}

func TestUnconfiguredServiceDegradesGracefully(t *testing.T) {
	svc := NewService(&config.Config{}, logger.New("test"))

	if svc.Configured() {
		t.Fatalf("service with no keys must report unconfigured")
	}

	result := svc.Trace(context.Background(), testAddr)
	if result.Success {
		t.Fatalf("unconfigured trace must not succeed")
	}
	if result.Configured {
		t.Fatalf("unconfigured trace must carry configured=false")
	}
	if result.Error == "" {
		t.Fatalf("unconfigured trace must explain itself")
	}
}

func TestProviderSelectionPrecedence(t *testing.T) {
	log := logger.New("test")

	// Explicit choice with its key wins.
	svc := NewService(&config.Config{SkipTraceProvider: "reiskip", BatchSkipKey: "bk", REISkipKey: "rk"}, log)
	if name := svc.provider.Name(); name != "REISkip" {
		t.Fatalf("explicit provider choice ignored, got %s", name)
	}

	// Explicit choice without a key falls through to any configured key.
	svc = NewService(&config.Config{SkipTraceProvider: "reiskip", BatchSkipKey: "bk"}, log)
	if name := svc.provider.Name(); name != "BatchSkipTracing" {
		t.Fatalf("expected fallback to configured vendor, got %s", name)
	}

	svc = NewService(&config.Config{REISkipKey: "rk"}, log)
	if name := svc.provider.Name(); name != "REISkip" {
		t.Fatalf("any configured key must be used, got %s", name)
	}
}

func TestBatchDataTrace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", got)
		}
		w.Write([]byte(`{"owner_name":"Jane Smith","phone":"512-555-1234","phone_type":"mobile","email":"jane@example.com","confidence":0.92}`))
	}))
	defer srv.Close()

	vendor := NewBatchDataWithBaseURL("test-key", srv.URL, logger.New("test"))
	result := vendor.Trace(context.Background(), testAddr)

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.Phone == nil || *result.Phone != "512-555-1234" {
		t.Fatalf("phone wrong: %v", result.Phone)
	}
	if result.Provider != "BatchSkipTracing" {
		t.Fatalf("provider label wrong: %q", result.Provider)
	}
	if result.Confidence == nil || *result.Confidence != 0.92 {
		t.Fatalf("confidence wrong: %v", result.Confidence)
	}
}

func TestREISkipTrace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "rk" {
			t.Errorf("missing api key header, got %q", got)
		}
		w.Write([]byte(`{"name":"Jane Smith","phone":"512-555-1234","email":null}`))
	}))
	defer srv.Close()

	vendor := NewREISkipWithBaseURL("rk", srv.URL, logger.New("test"))
	result := vendor.Trace(context.Background(), testAddr)

	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.OwnerName == nil || *result.OwnerName != "Jane Smith" {
		t.Fatalf("owner wrong: %v", result.OwnerName)
	}
}

func TestVendorErrorStaysConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer srv.Close()

	vendor := NewBatchDataWithBaseURL("test-key", srv.URL, logger.New("test"))
	result := vendor.Trace(context.Background(), testAddr)

	if result.Success {
		t.Fatalf("vendor error must fail the trace")
	}
	if !result.Configured {
		t.Fatalf("a vendor miss is not an unconfigured state")
	}
}

func TestTraceBatch(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.Write([]byte(`{"phone":"512-555-1234"}`))
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	svc := NewServiceWithProvider(NewBatchDataWithBaseURL("k", srv.URL, logger.New("test")), logger.New("test"))
	batch := svc.TraceBatch(context.Background(), []Address{testAddr, testAddr})

	if !batch.Success || !batch.Configured {
		t.Fatalf("configured batch must succeed: %+v", batch)
	}
	if batch.TotalRequested != 2 || batch.TotalFound != 1 {
		t.Fatalf("counters wrong: requested=%d found=%d", batch.TotalRequested, batch.TotalFound)
	}
	if hits != 2 {
		t.Fatalf("batch must trace sequentially through every address, hit %d", hits)
	}
}

func TestTraceBatchEmpty(t *testing.T) {
	svc := NewService(&config.Config{BatchSkipKey: "k"}, logger.New("test"))
	batch := svc.TraceBatch(context.Background(), nil)
	if batch.Success || batch.Error == "" {
		t.Fatalf("empty batch must fail with an explanation: %+v", batch)
	}
}

func TestTraceBatchUnconfigured(t *testing.T) {
	svc := NewService(&config.Config{}, logger.New("test"))
	batch := svc.TraceBatch(context.Background(), []Address{testAddr})

	if batch.Configured || batch.Success {
		t.Fatalf("unconfigured batch must report configured=false: %+v", batch)
	}
	if len(batch.Results) != 1 {
		t.Fatalf("unconfigured batch still returns per-address results")
	}
}
