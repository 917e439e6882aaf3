// Package csvio parses uploaded brand CSVs into records the submitter
// understands. Header names and cell values are trimmed before use, so
// sloppy spreadsheets with padded columns still load.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/flipmagic/brand-onboarder/internal/flip"
)

// RequiredColumns must all be present in the header, post-trim.
var RequiredColumns = []string{
	flip.ColBrandName,
	flip.ColCompanyName,
	flip.ColContactName,
	flip.ColVendorEmail,
}

// ErrEmptyCSV is returned for files with no data rows.
var ErrEmptyCSV = errors.New("CSV file appears to be empty")

// MissingColumnsError reports required header columns absent from the file.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "CSV file is missing required columns: " + strings.Join(e.Columns, ", ")
}

// ParseBrands reads the full CSV and returns one BrandRecord per data row,
// in file order, each stamped with its 1-based row number.
func ParseBrands(r io.Reader) ([]flip.BrandRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows; absent cells read as ""
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	if len(rows) <= 1 {
		return nil, ErrEmptyCSV
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	records := make([]flip.BrandRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		records = append(records, flip.BrandRecord{
			Row:             n + 1,
			BrandName:       cell(row, flip.ColBrandName),
			CompanyName:     cell(row, flip.ColCompanyName),
			MainContactName: cell(row, flip.ColContactName),
			VendorEmail:     cell(row, flip.ColVendorEmail),
			Description:     cell(row, "description"),
			FoundedYear:     cell(row, "foundedInYear"),
			Country:         cell(row, "countryOfOrigin"),
			Instagram:       cell(row, "instagramUrl"),
			Website:         cell(row, "websiteUrl"),
			Phone:           cell(row, "mainContactPhone"),
		})
	}
	return records, nil
}
