// Package export serializes snapshotted search results for download.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"chsearch/internal/search/models"
)

// Format is a supported download format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format query value. Empty defaults to CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid format %q, use csv or json", s)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// Write serializes records to w in the given format.
func Write(w io.Writer, format Format, records []models.CompanyRecord) error {
	if format == FormatJSON {
		return json.NewEncoder(w).Encode(records)
	}
	return writeCSV(w, records)
}

var csvHeader = []string{
	"Company Name",
	"Company Number",
	"Status",
	"Type",
	"SIC Codes",
	"Incorporation Date",
	"Locality",
	"Postal Code",
}

func writeCSV(w io.Writer, records []models.CompanyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.CompanyName,
			r.CompanyNumber,
			r.Status,
			r.Type,
			strings.Join(r.SICCodes, "; "),
			r.IncorporationDate,
			r.RegisteredOffice.Locality,
			r.RegisteredOffice.PostalCode,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
