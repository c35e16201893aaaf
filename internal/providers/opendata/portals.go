// Package opendata finds and queries Socrata open-data portals for permit,
// assessor and parcel records. The portal directory ships embedded so
// discovery works offline.
package opendata

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed portals.yaml
var portalsYAML []byte

// PropertyDataset describes one known Socrata property dataset and the field
// names its schema uses.
type PropertyDataset struct {
	Portal       string `yaml:"portal"`
	Dataset      string `yaml:"dataset"`
	AddressField string `yaml:"address_field"`
	YearField    string `yaml:"year_field"`
	CityField    string `yaml:"city_field"`
}

// portalEntry is one known jurisdiction. Entries keep the file's order so
// lookups and suggestions are deterministic.
type portalEntry struct {
	City   string `yaml:"city"`
	Domain string `yaml:"domain"`
}

type portalDirectory struct {
	Portals          []portalEntry              `yaml:"portals"`
	Keywords         map[string][]string        `yaml:"keywords"`
	PropertyDatasets map[string]PropertyDataset `yaml:"property_datasets"`
}

var directory portalDirectory

func init() {
	if err := yaml.Unmarshal(portalsYAML, &directory); err != nil {
		panic(fmt.Sprintf("opendata: invalid embedded portal directory: %v", err))
	}
}

// DiscoveryResult describes a portal lookup. On a miss the caller gets the
// first known portal names as a starting point for a manual search.
type DiscoveryResult struct {
	Found             bool     `json:"found"`
	Jurisdiction      string   `json:"jurisdiction"`
	Portal            *string  `json:"portal,omitempty"`
	SearchURL         *string  `json:"search_url,omitempty"`
	APIBase           *string  `json:"api_base,omitempty"`
	SuggestedKeywords []string `json:"suggested_keywords,omitempty"`
	Suggestion        *string  `json:"suggestion,omitempty"`
	CommonPortals     []string `json:"common_portals,omitempty"`
	Note              *string  `json:"note,omitempty"`
}

const maxPortalSuggestions = 10

// FindDataset looks up the open-data portal for a jurisdiction. The match is
// a substring test so "Austin, TX" and "City of Austin" both resolve.
func FindDataset(jurisdiction, datasetType string) DiscoveryResult {
	lower := strings.ToLower(jurisdiction)

	var portal string
	for _, entry := range directory.Portals {
		if strings.Contains(lower, entry.City) {
			portal = entry.Domain
			break
		}
	}

	keywords, ok := directory.Keywords[datasetType]
	if !ok {
		keywords = []string{datasetType}
	}

	if portal != "" {
		searchURL := fmt.Sprintf("https://%s/browse?q=%s", portal, strings.Join(keywords, "+"))
		apiBase := fmt.Sprintf("https://%s/resource/", portal)
		note := "Use web search to find specific dataset IDs, then query the resource endpoint to fetch data"
		return DiscoveryResult{
			Found:             true,
			Jurisdiction:      jurisdiction,
			Portal:            &portal,
			SearchURL:         &searchURL,
			APIBase:           &apiBase,
			SuggestedKeywords: keywords,
			Note:              &note,
		}
	}

	suggestion := fmt.Sprintf("Web search for '%s open data portal' or '%s Socrata'", jurisdiction, jurisdiction)
	return DiscoveryResult{
		Found:         false,
		Jurisdiction:  jurisdiction,
		Suggestion:    &suggestion,
		CommonPortals: knownPortalNames(maxPortalSuggestions),
	}
}

// PropertyDatasetFor returns the known property dataset for a city, if any.
func PropertyDatasetFor(city string) (PropertyDataset, bool) {
	ds, ok := directory.PropertyDatasets[strings.ToLower(strings.TrimSpace(city))]
	return ds, ok
}

// KnownPropertyCities lists cities with a registered property dataset.
func KnownPropertyCities() []string {
	cities := make([]string, 0, len(directory.PropertyDatasets))
	for city := range directory.PropertyDatasets {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

func knownPortalNames(limit int) []string {
	names := make([]string, 0, limit)
	for _, entry := range directory.Portals {
		names = append(names, entry.City)
		if len(names) == limit {
			break
		}
	}
	return names
}
