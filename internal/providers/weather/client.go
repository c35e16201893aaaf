// Package weather pulls active alerts from the National Weather Service and
// filters them down to events that produce roof damage.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"roofleads_backend/platform/logger"
)

const (
	nwsEndpoint        = "https://api.weather.gov/alerts/active"
	nwsUserAgent       = "roofleads-backend (lead research, contact: ops@roofleads.example)"
	maxAlerts          = 15
	maxDescriptionLen  = 500
	defaultHTTPTimeout = 15 * time.Second
)

// roofingEvents are the NWS event families whose occurrence makes roof
// inspections sellable. Matching is substring based because NWS event names
// vary ("Severe Thunderstorm Warning", "Severe Thunderstorm Watch").
var roofingEvents = []string{
	"Severe Thunderstorm",
	"Tornado",
	"Hail",
	"Wind",
	"Hurricane",
	"Tropical Storm",
	"High Wind",
}

// Alert is one active alert trimmed for lead research.
type Alert struct {
	Event           string  `json:"event"`
	Headline        *string `json:"headline,omitempty"`
	Severity        *string `json:"severity,omitempty"`
	AreaDesc        *string `json:"area_desc,omitempty"`
	Effective       *string `json:"effective,omitempty"`
	Expires         *string `json:"expires,omitempty"`
	Description     *string `json:"description,omitempty"`
	RoofingRelevant bool    `json:"roofing_relevant"`
}

// Result is the typed outcome of one alert query.
type Result struct {
	Success         bool    `json:"success"`
	Area            string  `json:"area"`
	AlertCount      int     `json:"alert_count"`
	RoofingRelevant int     `json:"roofing_relevant_count"`
	Alerts          []Alert `json:"alerts"`
	Error           string  `json:"error,omitempty"`
}

// Client calls the NWS alerts API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

func New(log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:    nwsEndpoint,
		log:        log,
	}
}

// NewWithBaseURL creates a client against a custom endpoint. Used in tests.
func NewWithBaseURL(log *logger.Logger, baseURL string) *Client {
	c := New(log)
	c.baseURL = baseURL
	return c
}

type nwsFeature struct {
	Properties struct {
		Event       string `json:"event"`
		Headline    string `json:"headline"`
		Severity    string `json:"severity"`
		AreaDesc    string `json:"areaDesc"`
		Effective   string `json:"effective"`
		Expires     string `json:"expires"`
		Description string `json:"description"`
	} `json:"properties"`
}

type nwsResponse struct {
	Features []nwsFeature `json:"features"`
}

// ActiveAlerts fetches active alerts for an area. A bare two-letter code is
// treated as a state ("TX"); anything longer is passed as a zone id.
func (c *Client) ActiveAlerts(ctx context.Context, area string) Result {
	area = strings.TrimSpace(area)

	params := url.Values{}
	if len(area) == 2 {
		params.Set("area", strings.ToUpper(area))
	} else {
		params.Set("zone", area)
	}

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{Success: false, Area: area, Error: err.Error()}
	}
	req.Header.Set("User-Agent", nwsUserAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ProviderError("nws", "active_alerts", err)
		return Result{Success: false, Area: area, Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("nws upstream error", "status", resp.StatusCode, "area", area)
		return Result{Success: false, Area: area, Error: fmt.Sprintf("upstream api error: %d", resp.StatusCode)}
	}

	var payload nwsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Error("failed to decode nws payload", "error", err)
		return Result{Success: false, Area: area, Error: err.Error()}
	}

	result := Result{
		Success:    true,
		Area:       area,
		AlertCount: len(payload.Features),
		Alerts:     make([]Alert, 0, min(len(payload.Features), maxAlerts)),
	}

	for _, f := range payload.Features {
		relevant := RoofingRelevant(f.Properties.Event)
		if relevant {
			result.RoofingRelevant++
		}
		if len(result.Alerts) >= maxAlerts {
			continue
		}
		result.Alerts = append(result.Alerts, Alert{
			Event:           f.Properties.Event,
			Headline:        optional(f.Properties.Headline),
			Severity:        optional(f.Properties.Severity),
			AreaDesc:        optional(f.Properties.AreaDesc),
			Effective:       optional(f.Properties.Effective),
			Expires:         optional(f.Properties.Expires),
			Description:     optional(truncate(f.Properties.Description, maxDescriptionLen)),
			RoofingRelevant: relevant,
		})
	}

	return result
}

// RoofingRelevant reports whether an NWS event name belongs to a damage-
// producing event family.
func RoofingRelevant(event string) bool {
	lower := strings.ToLower(event)
	for _, candidate := range roofingEvents {
		if strings.Contains(lower, strings.ToLower(candidate)) {
			return true
		}
	}
	return false
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
