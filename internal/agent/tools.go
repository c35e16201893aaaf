package agent

import (
	"context"
	"fmt"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"

	"roofleads_backend/internal/export"
	"roofleads_backend/internal/leads/domain"
	"roofleads_backend/internal/outreach"
	"roofleads_backend/internal/providers/geocode"
	"roofleads_backend/internal/providers/opendata"
	"roofleads_backend/internal/providers/search"
	"roofleads_backend/internal/providers/skiptrace"
	"roofleads_backend/internal/providers/weather"
)

// ToolDependencies carries the provider clients the tools close over.
type ToolDependencies struct {
	Geocoder *geocode.Client
	Weather  *weather.Client
	Socrata  *opendata.Client
	Bulk     *opendata.BulkSearcher
	Tracer   *skiptrace.Service
	Writer   *export.Writer

	DefaultYearThreshold int
	DefaultLeadCount     int
}

type geocodeInput struct {
	Address string `json:"address" jsonschema:"description=Full street address, e.g. '1600 Pennsylvania Ave NW, Washington, DC'"`
}

type weatherInput struct {
	Area string `json:"area" jsonschema:"description=Two-letter state code like TX, or an NWS zone id"`
}

type findDatasetInput struct {
	Jurisdiction string `json:"jurisdiction" jsonschema:"description=City or county, e.g. 'Austin, TX'"`
	DatasetType  string `json:"dataset_type" jsonschema:"description=One of: building_permits, assessor, parcels"`
}

type querySocrataInput struct {
	Endpoint string `json:"endpoint" jsonschema:"description=Full Socrata resource URL ending in .json"`
	Where    string `json:"where,omitempty" jsonschema:"description=SoQL WHERE clause, e.g. 'year_built < 2000'"`
	Order    string `json:"order,omitempty" jsonschema:"description=SoQL ORDER BY clause, e.g. 'year_built ASC'"`
	Limit    int    `json:"limit,omitempty" jsonschema:"description=Max records to fetch, default 100"`
}

type bulkPropertiesInput struct {
	City             string `json:"city"`
	State            string `json:"state,omitempty"`
	YearBefore       int    `json:"year_before,omitempty"`
	Limit            int    `json:"limit,omitempty"`
	SkipTraceEnabled bool   `json:"skip_trace_enabled,omitempty"`
}

type batchSkipTraceInput struct {
	Properties []skiptrace.Address `json:"properties"`
}

type businessSearchInput struct {
	Profession string `json:"profession" jsonschema:"description=Type of business, e.g. 'home inspector', 'realtor'"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	Count      int    `json:"count,omitempty"`
}

type writeLeadsInput struct {
	Rows     []domain.LeadRow `json:"rows"`
	Filename string           `json:"filename"`
	Format   string           `json:"format,omitempty" jsonschema:"description=csv or xlsx, default csv"`
}

type generateMessageInput struct {
	LeadType string            `json:"lead_type" jsonschema:"description=One of: middleman, storm, homeowner"`
	Lead     outreach.LeadData `json:"lead"`
	Context  string            `json:"context,omitempty"`
}

// buildTools wraps every research capability as an ADK function tool.
func buildTools(deps *ToolDependencies) ([]tool.Tool, error) {
	var tools []tool.Tool

	add := func(t tool.Tool, err error) error {
		if err != nil {
			return err
		}
		tools = append(tools, t)
		return nil
	}

	if err := add(functiontool.New(functiontool.Config{
		Name:        "geocode",
		Description: "Convert a street address to coordinates and normalized city/state/zip using the US Census geocoder.",
	}, func(ctx tool.Context, input geocodeInput) (geocode.Result, error) {
		return deps.Geocoder.Geocode(context.Background(), input.Address), nil
	})); err != nil {
		return tools, fmt.Errorf("geocode tool: %w", err)
	}

	if err := add(functiontool.New(functiontool.Config{
		Name:        "get_nws_alerts",
		Description: "Get active National Weather Service alerts for a state or zone, flagged for roofing relevance (hail, wind, tornado).",
	}, func(ctx tool.Context, input weatherInput) (weather.Result, error) {
		return deps.Weather.ActiveAlerts(context.Background(), input.Area), nil
	})); err != nil {
		return tools, fmt.Errorf("weather tool: %w", err)
	}

	if err := add(functiontool.New(functiontool.Config{
		Name:        "find_open_dataset",
		Description: "Find the Socrata open data portal for a city or county. Use for building permits, assessor data or parcels.",
	}, func(ctx tool.Context, input findDatasetInput) (opendata.DiscoveryResult, error) {
		return opendata.FindDataset(input.Jurisdiction, input.DatasetType), nil
	})); err != nil {
		return tools, fmt.Errorf("find_open_dataset tool: %w", err)
	}

	if err := add(functiontool.New(functiontool.Config{
		Name:        "query_socrata",
		Description: "Query a Socrata open data endpoint for property or permit records with an optional SoQL WHERE clause.",
	}, func(ctx tool.Context, input querySocrataInput) (opendata.QueryResult, error) {
		return deps.Socrata.Query(context.Background(), input.Endpoint, input.Where, input.Order, input.Limit), nil
	})); err != nil {
		return tools, fmt.Errorf("query_socrata tool: %w", err)
	}

	if err := add(functiontool.New(functiontool.Config{
		Name:        "bulk_property_search",
		Description: "Pull up to 1000 properties built before a given year from a known city dataset, optionally skip tracing owner phones.",
	}, func(ctx tool.Context, input bulkPropertiesInput) (opendata.BulkResult, error) {
		req := opendata.BulkRequest{
			City:             input.City,
			State:            input.State,
			YearBefore:       input.YearBefore,
			Limit:            input.Limit,
			SkipTraceEnabled: input.SkipTraceEnabled,
		}
		if req.State == "" {
			req.State = "TX"
		}
		if req.YearBefore <= 0 {
			req.YearBefore = deps.DefaultYearThreshold
		}
		return deps.Bulk.Search(context.Background(), req), nil
	})); err != nil {
		return tools, fmt.Errorf("bulk_property_search tool: %w", err)
	}

	if err := add(functiontool.New(functiontool.Config{
		Name:        "skip_trace",
		Description: "Get owner name and phone number for a property address. Returns configured=false when no vendor is set up.",
	}, func(ctx tool.Context, input skiptrace.Address) (skiptrace.Result, error) {
		return deps.Tracer.Trace(context.Background(), input), nil
	})); err != nil {
		return tools, fmt.Errorf("skip_trace tool: %w", err)
	}

	if err := add(functiontool.New(functiontool.Config{
		Name:        "batch_skip_trace",
		Description: "Skip trace multiple property addresses at once. Handles the unconfigured state gracefully.",
	}, func(ctx tool.Context, input batchSkipTraceInput) (skiptrace.BatchResult, error) {
		return deps.Tracer.TraceBatch(context.Background(), input.Properties), nil
	})); err != nil {
		return tools, fmt.Errorf("batch_skip_trace tool: %w", err)
	}

	if err := add(functiontool.New(functiontool.Config{
		Name:        "find_businesses",
		Description: "Plan the web searches needed to find businesses of a profession in a city. Run a web search for each returned query.",
	}, func(ctx tool.Context, input businessSearchInput) (search.Plan, error) {
		count := input.Count
		if count <= 0 {
			count = deps.DefaultLeadCount
		}
		return search.BuildPlan(input.Profession, input.City, input.State, count), nil
	})); err != nil {
		return tools, fmt.Errorf("find_businesses tool: %w", err)
	}

	if err := add(functiontool.New(functiontool.Config{
		Name:        "write_leads",
		Description: "Write lead rows to a CSV or Excel file in the output directory.",
	}, func(ctx tool.Context, input writeLeadsInput) (export.Result, error) {
		format := input.Format
		if format == "" {
			format = export.FormatCSV
		}
		return deps.Writer.Write(input.Rows, input.Filename, format), nil
	})); err != nil {
		return tools, fmt.Errorf("write_leads tool: %w", err)
	}

	if err := add(functiontool.New(functiontool.Config{
		Name:        "generate_message",
		Description: "Generate an outreach message draft for a lead by type (middleman, storm, homeowner).",
	}, func(ctx tool.Context, input generateMessageInput) (outreach.Message, error) {
		return outreach.Generate(domain.LeadType(input.LeadType), input.Lead, input.Context), nil
	})); err != nil {
		return tools, fmt.Errorf("generate_message tool: %w", err)
	}

	return tools, nil
}
