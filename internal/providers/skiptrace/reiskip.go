package skiptrace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"roofleads_backend/platform/logger"
)

const reiSkipEndpoint = "https://api.reiskip.com/v1/lookup"

// REISkip calls the REISkip lookup API.
type REISkip struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func NewREISkip(apiKey string, log *logger.Logger) *REISkip {
	return &REISkip{
		apiKey:     apiKey,
		baseURL:    reiSkipEndpoint,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		log:        log,
	}
}

// NewREISkipWithBaseURL creates a vendor client against a custom endpoint.
// Used in tests.
func NewREISkipWithBaseURL(apiKey, baseURL string, log *logger.Logger) *REISkip {
	r := NewREISkip(apiKey, log)
	r.baseURL = baseURL
	return r
}

func (r *REISkip) Name() string { return "REISkip" }

type reiSkipRequest struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type reiSkipResponse struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

func (r *REISkip) Trace(ctx context.Context, addr Address) Result {
	if r.apiKey == "" {
		return Result{
			Success:    false,
			Address:    addr.String(),
			Error:      "REISKIP_API_KEY not configured",
			Configured: false,
		}
	}

	body, err := json.Marshal(reiSkipRequest{
		Street: addr.Address,
		City:   addr.City,
		State:  addr.State,
		Zip:    addr.ZipCode,
	})
	if err != nil {
		return vendorFailure(r.Name(), addr, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, bytes.NewReader(body))
	if err != nil {
		return vendorFailure(r.Name(), addr, err.Error())
	}
	req.Header.Set("X-API-Key", r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ProviderError(r.Name(), "skip_trace", err)
		return vendorFailure(r.Name(), addr, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return vendorFailure(r.Name(), addr, fmt.Sprintf("upstream api error: %d", resp.StatusCode))
	}

	var payload reiSkipResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return vendorFailure(r.Name(), addr, err.Error())
	}

	return Result{
		Success:    true,
		Address:    addr.String(),
		OwnerName:  payload.Name,
		Phone:      payload.Phone,
		Email:      payload.Email,
		Provider:   r.Name(),
		Configured: true,
	}
}
