package opendata

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
	queryTimeout = 30 * time.Second
	// inlineRecordCap bounds the records returned inline; the true match
	// count is always reported alongside.
	inlineRecordCap = 20
)

// QueryResult carries a Socrata query outcome. Records is re-marshaled JSON
// because dataset schemas are unknown ahead of time.
type QueryResult struct {
	Success      bool    `json:"success"`
	Endpoint     string  `json:"endpoint"`
	Count        int     `json:"count"`
	TotalFetched int     `json:"total_fetched"`
	RecordsJSON  string  `json:"records_json"`
	Note         *string `json:"note,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// Client queries Socrata resource endpoints.
type Client struct {
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: queryTimeout},
		log:        log,
	}
}

// Query runs a SoQL query against a full resource endpoint URL. At most
// inlineRecordCap records are returned inline; Count reflects everything
// fetched.
func (c *Client) Query(ctx context.Context, endpoint, where, order string, limit int) QueryResult {
	if limit <= 0 {
		limit = 100
	}

	params := url.Values{}
	params.Set("$limit", fmt.Sprintf("%d", limit))
	if where != "" {
		params.Set("$where", where)
	}
	if order != "" {
		params.Set("$order", order)
	}

	records, err := c.fetch(ctx, endpoint, params)
	if err != nil {
		c.log.ProviderError("socrata", "query", err)
		return QueryResult{Success: false, Endpoint: endpoint, RecordsJSON: "[]", Error: err.Error()}
	}

	result := QueryResult{
		Success:      true,
		Endpoint:     endpoint,
		Count:        len(records),
		TotalFetched: len(records),
	}

	inline := records
	if len(records) > inlineRecordCap {
		inline = records[:inlineRecordCap]
		note := fmt.Sprintf("Showing first %d of %d records", inlineRecordCap, len(records))
		result.Note = &note
	}

	encoded, err := json.Marshal(inline)
	if err != nil {
		return QueryResult{Success: false, Endpoint: endpoint, RecordsJSON: "[]", Error: err.Error()}
	}
	result.RecordsJSON = string(encoded)
	return result
}

// fetch executes one GET against a Socrata endpoint and decodes the record
// array. Records stay as loose maps because every dataset has its own schema.
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]map[string]any, error) {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var records []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}
