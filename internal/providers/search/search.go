// Package search plans web searches for referral professionals and extracts
// contact details from result text. It does not execute the searches itself;
// the orchestrator owns the web search capability and feeds text back in.
package search

import (
	"fmt"
	"regexp"
	"strings"
)

// searchPatterns are the query templates fanned out per profession/city.
// Different phrasings surface different directories.
var searchPatterns = []string{
	"%[1]s in %[2]s",
	"%[1]s near %[2]s",
	"best %[1]s %[2]s",
	"%[1]s %[2]s phone number",
	"%[2]s %[1]s directory",
	"%[1]s %[2]s yelp",
	"%[1]s %[2]s reviews",
	"top rated %[1]s %[2]s",
	"%[1]s companies %[2]s",
	"licensed %[1]s %[2]s",
}

var (
	phonePattern = regexp.MustCompile(`[+]?[(]?[0-9]{1,3}[)]?[-\s.]?[(]?[0-9]{1,4}[)]?[-\s.]?[0-9]{1,4}[-\s.]?[0-9]{1,9}`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	urlPattern   = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	digitsOnly   = regexp.MustCompile(`[^\d]`)
)

// BusinessResult is one business found from search output.
type BusinessResult struct {
	Name        string  `json:"name"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	Website     *string `json:"website,omitempty"`
	Source      *string `json:"source,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Plan is the search fan-out for one profession/location pair.
type Plan struct {
	Success        bool             `json:"success"`
	Profession     string           `json:"profession"`
	Location       string           `json:"location"`
	RequestedCount int              `json:"requested_count"`
	FoundCount     int              `json:"found_count"`
	Businesses     []BusinessResult `json:"businesses"`
	QueriesUsed    []string         `json:"search_queries_used"`
	Note           *string          `json:"note,omitempty"`
}

// BuildPlan produces the queries to run for the requested lead count,
// assuming three to five usable results per query.
func BuildPlan(profession, city, state string, count int) Plan {
	location := city
	if state != "" {
		location = fmt.Sprintf("%s, %s", city, state)
	}

	numSearches := count / 3
	if numSearches < 3 {
		numSearches = 3
	}
	if numSearches > len(searchPatterns) {
		numSearches = len(searchPatterns)
	}

	queries := make([]string, 0, numSearches)
	for _, pattern := range searchPatterns[:numSearches] {
		queries = append(queries, fmt.Sprintf(pattern, profession, location))
	}

	note := fmt.Sprintf("Run a web search for EACH of these %d queries to find %d businesses", len(queries), count)
	return Plan{
		Success:        true,
		Profession:     profession,
		Location:       location,
		RequestedCount: count,
		Businesses:     []BusinessResult{},
		QueriesUsed:    queries,
		Note:           &note,
	}
}

// ExtractPhone pulls the first plausible phone number from free text.
// Matches whose digit count falls outside 10-15 (years, zip codes) are
// skipped.
func ExtractPhone(text string) *string {
	for _, match := range phonePattern.FindAllString(text, -1) {
		cleaned := digitsOnly.ReplaceAllString(match, "")
		if len(cleaned) >= 10 && len(cleaned) <= 15 {
			trimmed := strings.TrimSpace(match)
			return &trimmed
		}
	}
	return nil
}

// ExtractEmail pulls the first email address from free text.
func ExtractEmail(text string) *string {
	if match := emailPattern.FindString(text); match != "" {
		return &match
	}
	return nil
}

// ExtractURL pulls the first http(s) URL from free text.
func ExtractURL(text string) *string {
	if match := urlPattern.FindString(text); match != "" {
		return &match
	}
	return nil
}
