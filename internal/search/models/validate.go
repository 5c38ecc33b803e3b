package models

import (
	"regexp"
	"strings"
	"time"

	dErrors "chsearch/pkg/domain-errors"
)

// Statuses and types the registry recognises. Anything else is rejected
// before a single upstream call is made.
var validStatuses = map[string]struct{}{
	"active": {}, "dissolved": {}, "liquidation": {}, "receivership": {},
	"converted-closed": {}, "voluntary-arrangement": {},
	"insolvency-proceedings": {}, "administration": {},
}

var validTypes = map[string]struct{}{
	"ltd": {}, "plc": {}, "old-public-company": {}, "private-unlimited": {},
	"private-unlimited-nsc": {}, "private-limited-guarant-nsc-limited-exemption": {},
	"private-limited-guarant-nsc": {}, "private-limited-shares-section-30-exemption": {},
	"llp": {}, "limited-partnership": {}, "scottish-partnership": {},
	"charitable-incorporated-organisation": {}, "industrial-and-provident-society": {},
	"registered-society-non-jurisdiction": {}, "unregistered-company": {}, "other": {},
	"uk-establishment": {}, "scottish-charitable-incorporated-organisation": {},
	"protected-cell-company": {}, "investment-company-with-variable-capital": {},
	"investment-company-with-variable-capital-securities": {},
	"investment-company-with-variable-capital-umbrella":   {},
}

var sicPrefixPattern = regexp.MustCompile(`^\d{2,5}$`)

const dateLayout = "2006-01-02"

// Validate checks range and logic constraints on the filter set. Primitive
// shape validation belongs to the transport layer, but everything repeated
// here is cheap and the engine must not trust its callers.
func (f SearchFilters) Validate() error {
	for _, s := range f.CompanyStatus {
		if _, ok := validStatuses[s]; !ok {
			return dErrors.Newf(dErrors.CodeValidation, "invalid company_status value %q", s)
		}
	}
	for _, t := range f.CompanyType {
		if _, ok := validTypes[t]; !ok {
			return dErrors.Newf(dErrors.CodeValidation, "invalid company_type value %q", t)
		}
	}
	for _, p := range f.SICPrefixes {
		if !sicPrefixPattern.MatchString(p) {
			return dErrors.Newf(dErrors.CodeValidation, "invalid sic prefix %q: must be 2-5 digits", p)
		}
	}

	var from, to time.Time
	var err error
	if f.IncorporatedFrom != "" {
		if from, err = time.Parse(dateLayout, f.IncorporatedFrom); err != nil {
			return dErrors.New(dErrors.CodeValidation, "incorporated_from must be a valid YYYY-MM-DD date")
		}
	}
	if f.IncorporatedTo != "" {
		if to, err = time.Parse(dateLayout, f.IncorporatedTo); err != nil {
			return dErrors.New(dErrors.CodeValidation, "incorporated_to must be a valid YYYY-MM-DD date")
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return dErrors.New(dErrors.CodeValidation, "incorporated_from must not be after incorporated_to")
	}

	if f.OfficerBirthYear != 0 && (f.OfficerBirthYear < 1000 || f.OfficerBirthYear > 9999) {
		return dErrors.New(dErrors.CodeValidation, "officer_birth_year must be a four-digit year")
	}
	return nil
}

// ValidatePaging checks the page/pageSize contract: page is 1-based,
// pageSize must be within [1,100].
func ValidatePaging(page, pageSize int) error {
	if page < 1 {
		return dErrors.New(dErrors.CodeValidation, "page must be >= 1")
	}
	if pageSize < 1 || pageSize > 100 {
		return dErrors.New(dErrors.CodeValidation, "page_size must be between 1 and 100")
	}
	return nil
}

// MatchesLocal applies the predicates the upstream API cannot: SIC prefix,
// incorporation date range, postcode prefix and locality substring. Fields
// absent from the filters always match.
func (f SearchFilters) MatchesLocal(c CompanyRecord) bool {
	if len(f.SICPrefixes) > 0 && !matchesSIC(c.SICCodes, f.SICPrefixes) {
		return false
	}

	if f.IncorporatedFrom != "" || f.IncorporatedTo != "" {
		if c.IncorporationDate == "" {
			return false
		}
		inc, err := time.Parse(dateLayout, c.IncorporationDate)
		if err != nil {
			return false
		}
		if f.IncorporatedFrom != "" {
			from, _ := time.Parse(dateLayout, f.IncorporatedFrom)
			if inc.Before(from) {
				return false
			}
		}
		if f.IncorporatedTo != "" {
			to, _ := time.Parse(dateLayout, f.IncorporatedTo)
			if inc.After(to) {
				return false
			}
		}
	}

	if f.PostcodePrefix != "" {
		pc := strings.ToUpper(c.RegisteredOffice.PostalCode)
		if pc == "" || !strings.HasPrefix(pc, strings.ToUpper(f.PostcodePrefix)) {
			return false
		}
	}

	if f.Locality != "" {
		loc := strings.ToLower(c.RegisteredOffice.Locality)
		if loc == "" || !strings.Contains(loc, strings.ToLower(f.Locality)) {
			return false
		}
	}

	if len(f.CompanyStatus) > 0 && !contains(f.CompanyStatus, c.Status) {
		return false
	}
	if len(f.CompanyType) > 0 && !contains(f.CompanyType, c.Type) {
		return false
	}

	return true
}

func matchesSIC(codes, prefixes []string) bool {
	for _, code := range codes {
		for _, prefix := range prefixes {
			if strings.HasPrefix(code, prefix) {
				return true
			}
		}
	}
	return false
}

func contains(haystack []string, needle string) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
