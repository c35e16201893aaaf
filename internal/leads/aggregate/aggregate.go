// Package aggregate deduplicates scored leads and assembles the session
// response. Dedupe keys are derived from normalized identity fields so the
// same business found through two searches collapses to one lead.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"roofleads_backend/internal/leads/domain"
	"roofleads_backend/platform/phone"
)

// identityKey collapses a lead to a comparable identity. Any lead with a
// phone keys on (name, phone), even with no name: the number alone already
// identifies one contact. Phoneless leads fall back to the address triple.
// Leads with neither never collide.
func identityKey(l domain.Lead, ordinal int) string {
	name := normalizeStr(l.Name)
	digits := ""
	if l.Phone != nil {
		digits = phone.Digits(*l.Phone)
	}
	if digits != "" {
		return "np:" + name + "#" + digits
	}

	addr := normalizeStr(l.Address)
	if addr != "" {
		return "addr:" + addr + "#" + normalizeStr(l.City) + "#" + normalizeStr(l.State)
	}

	if name != "" {
		return "name:" + name
	}
	return fmt.Sprintf("anon:%d", ordinal)
}

func normalizeStr(s *string) string {
	if s == nil {
		return ""
	}
	return strings.ToLower(strings.Join(strings.Fields(*s), " "))
}

// Deduplicate merges leads that share an identity. The first occurrence
// keeps its position; when a duplicate scores higher its scoring fields win;
// evidence URLs are unioned in first-seen order; nil fields are filled from
// the duplicate. Running the output through again changes nothing.
func Deduplicate(leads []domain.Lead) []domain.Lead {
	out := make([]domain.Lead, 0, len(leads))
	index := make(map[string]int, len(leads))

	for i, lead := range leads {
		key := identityKey(lead, i)
		at, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, lead)
			continue
		}
		out[at] = merge(out[at], lead)
	}
	return out
}

// merge folds dup into base. Scoring fields follow the higher score; every
// other field keeps base's value unless base has none.
func merge(base, dup domain.Lead) domain.Lead {
	if dup.Score > base.Score {
		base.Score = dup.Score
		base.Qualified = dup.Qualified
		base.Reason = dup.Reason
	}

	base.EvidenceURLs = unionOrdered(base.EvidenceURLs, dup.EvidenceURLs)

	base.Name = fill(base.Name, dup.Name)
	base.Address = fill(base.Address, dup.Address)
	base.City = fill(base.City, dup.City)
	base.State = fill(base.State, dup.State)
	base.Zip = fill(base.Zip, dup.Zip)
	base.Phone = fill(base.Phone, dup.Phone)
	base.Email = fill(base.Email, dup.Email)
	base.Website = fill(base.Website, dup.Website)
	base.StormContext = fill(base.StormContext, dup.StormContext)
	base.Role = fill(base.Role, dup.Role)
	base.Notes = fill(base.Notes, dup.Notes)
	if base.YearBuilt == nil {
		base.YearBuilt = dup.YearBuilt
	}

	base.PhoneAvailable = base.Phone != nil && *base.Phone != ""
	return base
}

func fill(base, dup *string) *string {
	if base != nil && *base != "" {
		return base
	}
	return dup
}

// unionOrdered appends b's entries not already in a, keeping first-seen
// order.
func unionOrdered(a, b []string) []string {
	seen := make(map[string]struct{}, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, u := range a {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	for _, u := range b {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// BuildResponse deduplicates and assembles the session aggregate. Counters
// are recomputed from the deduplicated set, never carried over from inputs.
func BuildResponse(leads []domain.Lead, dataSources, stormEvents []string, skipTraceConfigured bool) domain.LeadsResponse {
	deduped := Deduplicate(leads)

	qualified := 0
	phones := 0
	for _, l := range deduped {
		if l.Qualified {
			qualified++
		}
		if l.PhoneAvailable {
			phones++
		}
	}

	return domain.LeadsResponse{
		Leads:               deduped,
		Summary:             buildSummary(len(deduped), qualified, phones),
		TotalFound:          len(deduped),
		QualifiedCount:      qualified,
		PhonesFound:         phones,
		DataSourcesUsed:     sortedUnique(dataSources),
		StormEvents:         sortedUnique(stormEvents),
		SkipTraceConfigured: skipTraceConfigured,
	}
}

func buildSummary(total, qualified, phones int) string {
	return fmt.Sprintf("%d leads found, %d qualified, %d with phone numbers", total, qualified, phones)
}

func sortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
