package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "chsearch/pkg/domain-errors"
)

func TestValidate(t *testing.T) {
	t.Run("empty filters are valid", func(t *testing.T) {
		assert.NoError(t, SearchFilters{}.Validate())
	})

	t.Run("known status and type pass", func(t *testing.T) {
		f := SearchFilters{
			CompanyStatus: []string{"active", "dissolved"},
			CompanyType:   []string{"ltd", "llp"},
		}
		assert.NoError(t, f.Validate())
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		err := SearchFilters{CompanyStatus: []string{"zombie"}}.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		err := SearchFilters{CompanyType: []string{"conglomerate"}}.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("sic prefix shorter than full code is allowed", func(t *testing.T) {
		assert.NoError(t, SearchFilters{SICPrefixes: []string{"62", "620", "62010"}}.Validate())
	})

	t.Run("non-numeric sic prefix is rejected", func(t *testing.T) {
		err := SearchFilters{SICPrefixes: []string{"62a"}}.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		err := SearchFilters{IncorporatedFrom: "01/02/2020"}.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("inverted date range is rejected", func(t *testing.T) {
		f := SearchFilters{IncorporatedFrom: "2021-01-01", IncorporatedTo: "2020-01-01"}
		err := f.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("officer birth year must be four digits", func(t *testing.T) {
		assert.Error(t, SearchFilters{OfficerBirthYear: 85}.Validate())
		assert.NoError(t, SearchFilters{OfficerBirthYear: 1960}.Validate())
	})
}

func TestValidatePaging(t *testing.T) {
	assert.NoError(t, ValidatePaging(1, 50))
	assert.NoError(t, ValidatePaging(999, 100))
	assert.Error(t, ValidatePaging(0, 50))
	assert.Error(t, ValidatePaging(1, 0))
	assert.Error(t, ValidatePaging(1, 101))
}

func TestMatchesLocal(t *testing.T) {
	record := CompanyRecord{
		CompanyNumber:     "12345678",
		CompanyName:       "ACME WIDGETS LTD",
		Status:            "active",
		Type:              "ltd",
		IncorporationDate: "2015-06-01",
		RegisteredOffice: RegisteredOffice{
			Locality:   "Manchester",
			PostalCode: "M1 2AB",
		},
		SICCodes: []string{"62012", "70229"},
	}

	t.Run("empty filters match everything", func(t *testing.T) {
		assert.True(t, SearchFilters{}.MatchesLocal(record))
	})

	t.Run("sic prefix matches any code by prefix", func(t *testing.T) {
		assert.True(t, SearchFilters{SICPrefixes: []string{"620"}}.MatchesLocal(record))
		assert.True(t, SearchFilters{SICPrefixes: []string{"99", "70"}}.MatchesLocal(record))
		assert.False(t, SearchFilters{SICPrefixes: []string{"99"}}.MatchesLocal(record))
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		assert.True(t, SearchFilters{IncorporatedFrom: "2015-06-01", IncorporatedTo: "2015-06-01"}.MatchesLocal(record))
		assert.False(t, SearchFilters{IncorporatedFrom: "2015-06-02"}.MatchesLocal(record))
		assert.False(t, SearchFilters{IncorporatedTo: "2015-05-31"}.MatchesLocal(record))
	})

	t.Run("unknown incorporation date fails date filters", func(t *testing.T) {
		undated := record
		undated.IncorporationDate = ""
		assert.False(t, SearchFilters{IncorporatedFrom: "2010-01-01"}.MatchesLocal(undated))
		assert.True(t, SearchFilters{}.MatchesLocal(undated))
	})

	t.Run("postcode prefix is case-insensitive", func(t *testing.T) {
		assert.True(t, SearchFilters{PostcodePrefix: "m1"}.MatchesLocal(record))
		assert.True(t, SearchFilters{PostcodePrefix: "M1 2"}.MatchesLocal(record))
		assert.False(t, SearchFilters{PostcodePrefix: "SW1"}.MatchesLocal(record))
	})

	t.Run("missing postcode fails postcode filter", func(t *testing.T) {
		bare := record
		bare.RegisteredOffice.PostalCode = ""
		assert.False(t, SearchFilters{PostcodePrefix: "M1"}.MatchesLocal(bare))
	})

	t.Run("locality is a case-insensitive substring match", func(t *testing.T) {
		assert.True(t, SearchFilters{Locality: "manchester"}.MatchesLocal(record))
		assert.True(t, SearchFilters{Locality: "CHest"}.MatchesLocal(record))
		assert.False(t, SearchFilters{Locality: "London"}.MatchesLocal(record))
	})

	t.Run("status and type membership", func(t *testing.T) {
		assert.True(t, SearchFilters{CompanyStatus: []string{"dissolved", "active"}}.MatchesLocal(record))
		assert.False(t, SearchFilters{CompanyStatus: []string{"dissolved"}}.MatchesLocal(record))
		assert.True(t, SearchFilters{CompanyType: []string{"ltd"}}.MatchesLocal(record))
		assert.False(t, SearchFilters{CompanyType: []string{"plc"}}.MatchesLocal(record))
	})
}

func TestFilterShape(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.True(t, SearchFilters{}.Empty())
		assert.False(t, SearchFilters{Keyword: "acme"}.Empty())
		assert.False(t, SearchFilters{OfficerBirthYear: 1960}.Empty())
	})

	t.Run("KeywordOnly", func(t *testing.T) {
		assert.True(t, SearchFilters{Keyword: "acme"}.KeywordOnly())
		assert.False(t, SearchFilters{}.KeywordOnly())
		assert.False(t, SearchFilters{Keyword: "acme", Locality: "Leeds"}.KeywordOnly())
	})
}

func TestOfficerPredicates(t *testing.T) {
	born1950 := &DateOfBirth{Year: 1950}
	born1980 := &DateOfBirth{Year: 1980}

	t.Run("resigned officers never count", func(t *testing.T) {
		list := OfficerList{Items: []Officer{
			{Name: "OLD, Resigned", DateOfBirth: born1950, ResignedOn: "2019-01-01"},
		}}
		assert.False(t, list.HasActiveOfficerBornBefore(1960))
	})

	t.Run("unknown birth year never counts", func(t *testing.T) {
		list := OfficerList{Items: []Officer{{Name: "UNKNOWN, Age"}}}
		assert.False(t, list.HasActiveOfficerBornBefore(1960))
	})

	t.Run("cutoff is strict", func(t *testing.T) {
		list := OfficerList{Items: []Officer{{Name: "EDGE, Case", DateOfBirth: &DateOfBirth{Year: 1960}}}}
		assert.False(t, list.HasActiveOfficerBornBefore(1960))
		assert.True(t, list.HasActiveOfficerBornBefore(1961))
	})

	t.Run("one qualifying officer is enough", func(t *testing.T) {
		list := OfficerList{Items: []Officer{
			{Name: "YOUNG, Active", DateOfBirth: born1980},
			{Name: "OLD, Active", DateOfBirth: born1950},
		}}
		assert.True(t, list.HasActiveOfficerBornBefore(1960))
	})
}
