package opendata

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"roofleads_backend/internal/leads/domain"
	"roofleads_backend/internal/providers/skiptrace"
	"roofleads_backend/platform/logger"
	"roofleads_backend/platform/sanitize"
)

const (
	bulkTimeout = 60 * time.Second
	// bulkRecordCap is the Socrata hard page size we stay under.
	bulkRecordCap = 1000
	// skipTraceCap bounds paid enrichment per bulk pull.
	skipTraceCap = 50
)

// BulkResult is the outcome of one bulk property pull.
type BulkResult struct {
	Success    bool                    `json:"success"`
	Location   string                  `json:"location"`
	TotalFound int                     `json:"total_found"`
	WithPhones int                     `json:"with_phones"`
	Leads      []domain.PropertyRecord `json:"leads"`
	CSVPath    *string                 `json:"csv_path,omitempty"`
	DataSource *string                 `json:"data_source,omitempty"`
	Error      string                  `json:"error,omitempty"`
	Note       *string                 `json:"note,omitempty"`
}

// BulkSearcher pulls large property batches straight from Socrata, bypassing
// the per-call inline record cap, and optionally enriches owners by skip
// trace before writing a CSV side file.
type BulkSearcher struct {
	httpClient *http.Client
	tracer     *skiptrace.Service
	outputDir  string
	log        *logger.Logger
}

func NewBulkSearcher(tracer *skiptrace.Service, outputDir string, log *logger.Logger) *BulkSearcher {
	return &BulkSearcher{
		httpClient: &http.Client{Timeout: bulkTimeout},
		tracer:     tracer,
		outputDir:  outputDir,
		log:        log,
	}
}

// BulkRequest selects a city dataset and a build-year cutoff.
type BulkRequest struct {
	City             string `json:"city" binding:"required"`
	State            string `json:"state"`
	YearBefore       int    `json:"year_before"`
	Limit            int    `json:"limit"`
	SkipTraceEnabled bool   `json:"skip_trace_enabled"`
}

// Search pulls properties built before the cutoff year, oldest first.
func (b *BulkSearcher) Search(ctx context.Context, req BulkRequest) BulkResult {
	location := fmt.Sprintf("%s, %s", req.City, req.State)

	ds, ok := PropertyDatasetFor(req.City)
	if !ok {
		note := "Use dataset discovery to search for property data in this area"
		return BulkResult{
			Success:  false,
			Location: location,
			Error: fmt.Sprintf("No known property dataset for %s. Available cities: %v",
				req.City, KnownPropertyCities()),
			Note: &note,
		}
	}

	limit := req.Limit
	if limit <= 0 || limit > bulkRecordCap {
		limit = bulkRecordCap
	}

	endpoint := fmt.Sprintf("https://%s/resource/%s.json", ds.Portal, ds.Dataset)
	params := url.Values{}
	params.Set("$limit", strconv.Itoa(limit))
	params.Set("$where", fmt.Sprintf("%s < %d", ds.YearField, req.YearBefore))
	params.Set("$order", fmt.Sprintf("%s ASC", ds.YearField))

	records, err := b.fetch(ctx, endpoint, params)
	if err != nil {
		b.log.ProviderError("socrata", "bulk_properties", err)
		return BulkResult{Success: false, Location: location, Error: err.Error()}
	}

	properties := make([]domain.PropertyRecord, 0, len(records))
	for _, record := range records {
		properties = append(properties, recordToProperty(record, ds, req.City, req.State, endpoint))
	}

	withPhones := 0
	if req.SkipTraceEnabled && b.tracer != nil {
		withPhones = b.enrichOwners(ctx, properties)
	}

	result := BulkResult{
		Success:    true,
		Location:   location,
		TotalFound: len(properties),
		WithPhones: withPhones,
		Leads:      properties,
		DataSource: &endpoint,
	}

	if path, err := b.writeCSV(properties, req.City, req.State); err != nil {
		b.log.Error("failed to write bulk property csv", "error", err)
	} else {
		result.CSVPath = &path
		b.log.ExportWritten(path, "csv", len(properties))
	}

	note := fmt.Sprintf("Found %d properties built before %d", len(properties), req.YearBefore)
	result.Note = &note
	return result
}

func (b *BulkSearcher) fetch(ctx context.Context, endpoint string, params url.Values) ([]map[string]any, error) {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := b.httpClient.Do(req)
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

// enrichOwners skip traces the oldest properties, capped for cost, and
// writes contact details back in place. Returns how many phones were found.
func (b *BulkSearcher) enrichOwners(ctx context.Context, properties []domain.PropertyRecord) int {
	found := 0
	for i := range properties {
		if i >= skipTraceCap {
			break
		}
		p := &properties[i]
		if p.Address == "" || p.City == nil {
			continue
		}
		result := b.tracer.Trace(ctx, skiptrace.Address{
			Address: p.Address,
			City:    *p.City,
			State:   deref(p.State),
			ZipCode: deref(p.ZipCode),
		})
		if !result.Configured {
			break
		}
		if result.Success && result.Phone != nil {
			p.Phone = result.Phone
			p.OwnerName = result.OwnerName
			p.Email = result.Email
			found++
		}
	}
	return found
}

var propertyCSVHeader = []string{
	"address", "city", "state", "zip_code", "year_built",
	"owner_name", "phone", "email", "property_type", "sqft",
}

func (b *BulkSearcher) writeCSV(properties []domain.PropertyRecord, city, state string) (string, error) {
	if err := os.MkdirAll(b.outputDir, 0o755); err != nil {
		return "", err
	}

	stamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("property_leads_%s_%s_%s.csv",
		sanitize.Filename(city), sanitize.Filename(state), stamp)
	path := filepath.Join(b.outputDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(propertyCSVHeader); err != nil {
		return "", err
	}
	for _, p := range properties {
		row := []string{
			p.Address,
			deref(p.City),
			deref(p.State),
			deref(p.ZipCode),
			intField(p.YearBuilt),
			deref(p.OwnerName),
			deref(p.Phone),
			deref(p.Email),
			deref(p.PropertyType),
			intField(p.Sqft),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}

// recordToProperty maps one loose Socrata record onto the property model,
// tolerating per-portal field name drift.
func recordToProperty(record map[string]any, ds PropertyDataset, city, state, endpoint string) domain.PropertyRecord {
	p := domain.PropertyRecord{
		Address:    stringField(record, ds.AddressField),
		DataSource: endpoint,
	}

	cityField := ds.CityField
	if cityField == "" {
		cityField = "city"
	}
	p.City = fallbackStr(stringField(record, cityField), city)
	p.State = fallbackStr(stringField(record, "state"), state)
	p.ZipCode = fallbackStr(stringField(record, "zip"), stringField(record, "zip_code"))
	p.YearBuilt = intFieldOf(record, ds.YearField)
	p.PropertyType = fallbackStr(stringField(record, "property_type"), stringField(record, "land_use"))
	p.Sqft = firstInt(intFieldOf(record, "sqft"), intFieldOf(record, "living_area"))

	return p
}

func stringField(record map[string]any, key string) string {
	if key == "" {
		return ""
	}
	if v, ok := record[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// intFieldOf parses numbers that portals serve as either JSON numbers or
// numeric strings ("1987", "1987.0").
func intFieldOf(record map[string]any, key string) *int {
	if key == "" {
		return nil
	}
	v, ok := record[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		i := int(f)
		return &i
	}
	return nil
}

func fallbackStr(primary, fallback string) *string {
	if primary != "" {
		return &primary
	}
	if fallback != "" {
		return &fallback
	}
	return nil
}

func firstInt(candidates ...*int) *int {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intField(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
