// Package geocode resolves free-text street addresses to coordinates and
// normalized components using the US Census geocoder (free, no key).
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"roofleads_backend/platform/logger"
)

const (
	censusEndpoint     = "https://geocoding.geo.census.gov/geocoder/locations/onelineaddress"
	censusBenchmark    = "Public_AR_Current"
	defaultHTTPTimeout = 15 * time.Second
)

// Result is the typed outcome of one geocode call. Transport failures and
// zero-match responses both land here; nothing escapes as a panic or error.
type Result struct {
	Success        bool     `json:"success"`
	Input          string   `json:"input"`
	MatchedAddress *string  `json:"matched_address,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	City           *string  `json:"city,omitempty"`
	State          *string  `json:"state,omitempty"`
	Zip            *string  `json:"zip,omitempty"`
	TigerLineID    *string  `json:"tiger_line_id,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Client calls the Census geocoder.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// New creates a geocode client with a bounded timeout.
func New(log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:    censusEndpoint,
		log:        log,
	}
}

// NewWithBaseURL creates a client against a custom endpoint. Used in tests.
func NewWithBaseURL(log *logger.Logger, baseURL string) *Client {
	c := New(log)
	c.baseURL = baseURL
	return c
}

// census wire format, trimmed to the fields we read.
type censusResponse struct {
	Result struct {
		AddressMatches []struct {
			MatchedAddress string `json:"matchedAddress"`
			Coordinates    struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
			} `json:"coordinates"`
			AddressComponents struct {
				City  string `json:"city"`
				State string `json:"state"`
				Zip   string `json:"zip"`
			} `json:"addressComponents"`
			TigerLine struct {
				TigerLineID string `json:"tigerLineId"`
			} `json:"tigerLine"`
		} `json:"addressMatches"`
	} `json:"result"`
}

// Geocode resolves one address. Zero matches is a failed Result with a fixed
// error string, not a transport error.
func (c *Client) Geocode(ctx context.Context, address string) Result {
	params := url.Values{}
	params.Set("address", address)
	params.Set("benchmark", censusBenchmark)
	params.Set("format", "json")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return failure(address, err.Error())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ProviderError("census", "geocode", err)
		return failure(address, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("census geocoder upstream error", "status", resp.StatusCode)
		return failure(address, fmt.Sprintf("upstream api error: %d", resp.StatusCode))
	}

	var payload censusResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Error("failed to decode census payload", "error", err)
		return failure(address, err.Error())
	}

	matches := payload.Result.AddressMatches
	if len(matches) == 0 {
		return failure(address, "No address matches found")
	}

	match := matches[0]
	result := Result{
		Success:        true,
		Input:          address,
		MatchedAddress: strPtr(match.MatchedAddress),
		Latitude:       &match.Coordinates.Y,
		Longitude:      &match.Coordinates.X,
		City:           strPtr(match.AddressComponents.City),
		State:          strPtr(match.AddressComponents.State),
		Zip:            strPtr(match.AddressComponents.Zip),
		TigerLineID:    strPtr(match.TigerLine.TigerLineID),
	}
	return result
}

func failure(address, msg string) Result {
	return Result{Success: false, Input: address, Error: msg}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
