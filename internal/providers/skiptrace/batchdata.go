package skiptrace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"roofleads_backend/platform/logger"
)

const batchDataEndpoint = "https://api.batchskiptracing.com/api/v1/skip-trace"

// BatchData calls the BatchSkipTracing.com API.
type BatchData struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewBatchData(apiKey string, log *logger.Logger) *BatchData {
	return &BatchData{
		apiKey:     apiKey,
		baseURL:    batchDataEndpoint,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		log:        log,
	}
}

// NewBatchDataWithBaseURL creates a vendor client against a custom endpoint.
// Used in tests.
func NewBatchDataWithBaseURL(apiKey, baseURL string, log *logger.Logger) *BatchData {
	b := NewBatchData(apiKey, log)
	b.baseURL = baseURL
	return b
}

func (b *BatchData) Name() string { return "BatchSkipTracing" }

type batchDataRequest struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
}

type batchDataResponse struct {
	OwnerName  *string  `json:"owner_name"`
	Phone      *string  `json:"phone"`
	PhoneType  *string  `json:"phone_type"`
	Email      *string  `json:"email"`
	Confidence *float64 `json:"confidence"`
}

func (b *BatchData) Trace(ctx context.Context, addr Address) Result {
	if b.apiKey == "" {
		return Result{
			Success:    false,
			Address:    addr.String(),
			Error:      "BATCH_SKIP_TRACING_API_KEY not configured",
			Configured: false,
		}
	}

	body, err := json.Marshal(batchDataRequest{
		Address: addr.Address,
		City:    addr.City,
		State:   addr.State,
		Zip:     addr.ZipCode,
	})
	if err != nil {
		return vendorFailure(b.Name(), addr, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL, bytes.NewReader(body))
	if err != nil {
		return vendorFailure(b.Name(), addr, err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+b.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.log.ProviderError(b.Name(), "skip_trace", err)
		return vendorFailure(b.Name(), addr, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return vendorFailure(b.Name(), addr, fmt.Sprintf("upstream api error: %d", resp.StatusCode))
	}

	var payload batchDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return vendorFailure(b.Name(), addr, err.Error())
	}

	return Result{
		Success:    true,
		Address:    addr.String(),
		OwnerName:  payload.OwnerName,
		Phone:      payload.Phone,
		PhoneType:  payload.PhoneType,
		Email:      payload.Email,
		Confidence: payload.Confidence,
		Provider:   b.Name(),
		Configured: true,
	}
}

func vendorFailure(provider string, addr Address, msg string) Result {
	return Result{
		Success:    false,
		Address:    addr.String(),
		Provider:   provider,
		Error:      msg,
		Configured: true,
	}
}
