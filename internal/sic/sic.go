// Package sic maps natural-language queries to UK SIC codes.
//
// The registry filters by numeric SIC code only, so a user typing "bakery"
// needs translation before the filter can be pushed upstream. The table here
// covers the common sections; it is deliberately a curated subset, not the
// full 700-entry condensed list.
package sic

import (
	"regexp"
	"sort"
	"strings"
)

// Mapping associates one SIC code with its official description and the
// informal search terms that should resolve to it.
type Mapping struct {
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

var numericCode = regexp.MustCompile(`^\d{4,5}$`)

// Search resolves a free-text query to SIC codes. A bare 4-5 digit query is
// taken as a literal code; anything else matches against descriptions and
// keywords in both directions (query contains keyword, keyword contains
// query). Results are sorted and deduplicated.
func Search(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if numericCode.MatchString(q) {
		return []string{q}
	}

	seen := make(map[string]struct{})
	for _, m := range mappings {
		if strings.Contains(strings.ToLower(m.Description), q) {
			seen[m.Code] = struct{}{}
			continue
		}
		for _, kw := range m.Keywords {
			if strings.Contains(kw, q) || strings.Contains(q, kw) {
				seen[m.Code] = struct{}{}
				break
			}
		}
	}

	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Description returns the official description for code, or the code itself
// when it is not in the table.
func Description(code string) string {
	for _, m := range mappings {
		if m.Code == code {
			return m.Description
		}
	}
	return code
}

// Mappings returns the full table, for the lookup endpoint.
func Mappings() []Mapping {
	out := make([]Mapping, len(mappings))
	copy(out, mappings)
	return out
}
