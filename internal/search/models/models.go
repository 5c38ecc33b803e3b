package models

// SearchFilters is the declarative filter set accepted by the search engine.
// Zero-valued fields mean "not filtered". Instances are treated as immutable
// once they enter the engine.
type SearchFilters struct {
	Keyword          string   `json:"keyword,omitempty"`
	CompanyStatus    []string `json:"company_status,omitempty"`
	CompanyType      []string `json:"company_type,omitempty"`
	SICPrefixes      []string `json:"sic,omitempty"`
	IncorporatedFrom string   `json:"incorporated_from,omitempty"` // YYYY-MM-DD
	IncorporatedTo   string   `json:"incorporated_to,omitempty"`   // YYYY-MM-DD
	PostcodePrefix   string   `json:"postcode_prefix,omitempty"`
	Locality         string   `json:"locality,omitempty"`
	// OfficerBirthYear matches companies with at least one active officer
	// whose birth year is strictly less than this value.
	OfficerBirthYear int `json:"officer_birth_year,omitempty"`
}

// Empty reports whether no filter field at all is set.
func (f SearchFilters) Empty() bool {
	return f.Keyword == "" &&
		len(f.CompanyStatus) == 0 &&
		len(f.CompanyType) == 0 &&
		len(f.SICPrefixes) == 0 &&
		f.IncorporatedFrom == "" &&
		f.IncorporatedTo == "" &&
		f.PostcodePrefix == "" &&
		f.Locality == "" &&
		f.OfficerBirthYear == 0
}

// KeywordOnly reports whether the keyword is the only filter present.
func (f SearchFilters) KeywordOnly() bool {
	if f.Keyword == "" {
		return false
	}
	rest := f
	rest.Keyword = ""
	return rest.Empty()
}

// RegisteredOffice is the address subset the registry exposes on profiles
// and search hits. All fields are optional upstream.
type RegisteredOffice struct {
	Locality   string `json:"locality,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Region     string `json:"region,omitempty"`
	Country    string `json:"country,omitempty"`
}

// CompanyRecord is the canonical normalized company shape. CompanyNumber is
// the stable identity used for caching and deduplication. Records are never
// mutated after construction.
type CompanyRecord struct {
	CompanyNumber     string           `json:"company_number"`
	CompanyName       string           `json:"company_name"`
	Status            string           `json:"status"`
	Type              string           `json:"type"`
	IncorporationDate string           `json:"incorporation_date,omitempty"` // YYYY-MM-DD, may be unknown
	RegisteredOffice  RegisteredOffice `json:"registered_office"`
	SICCodes          []string         `json:"sic_codes,omitempty"`
}

// DateOfBirth is the redacted birth date the registry publishes for officers.
type DateOfBirth struct {
	Month int `json:"month,omitempty"`
	Year  int `json:"year,omitempty"`
}

// Officer is one company officer as returned by the registry.
type Officer struct {
	Name        string       `json:"name"`
	Role        string       `json:"officer_role"`
	AppointedOn string       `json:"appointed_on,omitempty"`
	ResignedOn  string       `json:"resigned_on,omitempty"`
	DateOfBirth *DateOfBirth `json:"date_of_birth,omitempty"`
	Nationality string       `json:"nationality,omitempty"`
	Occupation  string       `json:"occupation,omitempty"`
}

// Active reports whether the officer currently holds the appointment.
func (o Officer) Active() bool { return o.ResignedOn == "" }

// BornBefore reports whether the officer has a known birth year strictly
// less than year.
func (o Officer) BornBefore(year int) bool {
	return o.DateOfBirth != nil && o.DateOfBirth.Year != 0 && o.DateOfBirth.Year < year
}

// OfficerList is the officer roster for one company.
type OfficerList struct {
	Items         []Officer `json:"items"`
	ActiveCount   int       `json:"active_count"`
	ResignedCount int       `json:"resigned_count"`
	TotalResults  int       `json:"total_results"`
}

// HasActiveOfficerBornBefore reports whether any active officer has a known
// birth year strictly less than year.
func (l OfficerList) HasActiveOfficerBornBefore(year int) bool {
	for _, o := range l.Items {
		if o.Active() && o.BornBefore(year) {
			return true
		}
	}
	return false
}

// SearchPage is one page of normalized results from an upstream search
// endpoint, with the upstream's reported total for the whole query.
type SearchPage struct {
	Items []CompanyRecord
	Total int
}

// Progress is one liveness event from a long-running enrichment scan.
// Processed is monotonically non-decreasing and ends equal to Total.
type Progress struct {
	Processed int
	Total     int
}

// ProgressSink receives progress events. Implementations must not block for
// long; the pipeline calls it between batches.
type ProgressSink func(Progress)

// Result is one resolved search page plus the export token for the full
// filtered collection.
type Result struct {
	Items []CompanyRecord `json:"items"`
	Page  int             `json:"page"`
	Total int             `json:"total_estimated"`
	Token string          `json:"result_token"`
	// Truncated is set when the enrichment candidate ceiling was hit, in
	// which case Total is a lower bound over the scanned candidates.
	Truncated bool `json:"truncated,omitempty"`
}
