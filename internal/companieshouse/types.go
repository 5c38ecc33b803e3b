package companieshouse

import "chsearch/internal/search/models"

// Wire shapes for the three registry endpoints we consume. Field names track
// the upstream JSON exactly; normalization into models.CompanyRecord happens
// here so nothing upstream-shaped leaks past this package.

type rawAddress struct {
	Locality   string `json:"locality"`
	PostalCode string `json:"postal_code"`
	Region     string `json:"region"`
	Country    string `json:"country"`
}

// searchItem is one hit from GET /search/companies. The keyword endpoint
// calls the name "title" and carries no SIC codes.
type searchItem struct {
	CompanyNumber  string     `json:"company_number"`
	Title          string     `json:"title"`
	CompanyName    string     `json:"company_name"`
	CompanyStatus  string     `json:"company_status"`
	CompanyType    string     `json:"company_type"`
	DateOfCreation string     `json:"date_of_creation"`
	Address        rawAddress `json:"address"`
}

type searchResponse struct {
	Items        []searchItem `json:"items"`
	TotalResults int          `json:"total_results"`
}

// advancedItem is one hit from GET /advanced-search/companies, which uses
// profile-style field names and includes SIC codes.
type advancedItem struct {
	CompanyName             string     `json:"company_name"`
	CompanyNumber           string     `json:"company_number"`
	CompanyStatus           string     `json:"company_status"`
	CompanyType             string     `json:"company_type"`
	DateOfCreation          string     `json:"date_of_creation"`
	RegisteredOfficeAddress rawAddress `json:"registered_office_address"`
	SICCodes                []string   `json:"sic_codes"`
}

type advancedResponse struct {
	Items []advancedItem `json:"items"`
	Hits  int            `json:"hits"`
}

type profileResponse struct {
	CompanyName             string     `json:"company_name"`
	CompanyNumber           string     `json:"company_number"`
	CompanyStatus           string     `json:"company_status"`
	Type                    string     `json:"type"`
	DateOfCreation          string     `json:"date_of_creation"`
	RegisteredOfficeAddress rawAddress `json:"registered_office_address"`
	SICCodes                []string   `json:"sic_codes"`
}

type upstreamError struct {
	Error string `json:"error"`
}

func (i searchItem) toRecord() models.CompanyRecord {
	name := i.Title
	if name == "" {
		name = i.CompanyName
	}
	return models.CompanyRecord{
		CompanyNumber:     i.CompanyNumber,
		CompanyName:       name,
		Status:            i.CompanyStatus,
		Type:              i.CompanyType,
		IncorporationDate: i.DateOfCreation,
		RegisteredOffice:  i.Address.toOffice(),
	}
}

func (i advancedItem) toRecord() models.CompanyRecord {
	return models.CompanyRecord{
		CompanyNumber:     i.CompanyNumber,
		CompanyName:       i.CompanyName,
		Status:            i.CompanyStatus,
		Type:              i.CompanyType,
		IncorporationDate: i.DateOfCreation,
		RegisteredOffice:  i.RegisteredOfficeAddress.toOffice(),
		SICCodes:          i.SICCodes,
	}
}

func (p profileResponse) toRecord() models.CompanyRecord {
	return models.CompanyRecord{
		CompanyNumber:     p.CompanyNumber,
		CompanyName:       p.CompanyName,
		Status:            p.CompanyStatus,
		Type:              p.Type,
		IncorporationDate: p.DateOfCreation,
		RegisteredOffice:  p.RegisteredOfficeAddress.toOffice(),
		SICCodes:          p.SICCodes,
	}
}

func (a rawAddress) toOffice() models.RegisteredOffice {
	return models.RegisteredOffice{
		Locality:   a.Locality,
		PostalCode: a.PostalCode,
		Region:     a.Region,
		Country:    a.Country,
	}
}
