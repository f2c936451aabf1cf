package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/models"
)

const (
	colDistrict    = "district"
	colSuitability = "suitability"
	colArea        = "area_ha"
	colNdvi        = "ndvi_mean"
)

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

func checkArea(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New("area must be finite")
	}
	if v < 0 {
		return fmt.Errorf("area must not be negative, got %g", v)
	}
	return nil
}

func checkNdvi(v float64) error {
	if math.IsNaN(v) || v < -1 || v > 1 {
		return fmt.Errorf("ndvi must be within [-1, 1], got %g", v)
	}
	return nil
}

// normalizeBinary trims and type-checks one record. On failure it returns the
// offending column.
func normalizeBinary(r models.BinaryRecord) (models.BinaryRecord, string, error) {
	r.District = strings.TrimSpace(r.District)
	if r.District == "" {
		return r, colDistrict, errors.New("district is blank")
	}
	class, err := models.ParseSuitability(string(r.Suitability))
	if err != nil {
		return r, colSuitability, err
	}
	r.Suitability = class
	if err := checkArea(r.AreaHa); err != nil {
		return r, colArea, err
	}
	return r, "", nil
}

func normalizeNdvi(r models.NdviRecord) (models.NdviRecord, string, error) {
	b, col, err := normalizeBinary(models.BinaryRecord{
		District:    r.District,
		Suitability: r.Suitability,
		AreaHa:      r.AreaHa,
	})
	if err != nil {
		return r, col, err
	}
	r.District, r.Suitability = b.District, b.Suitability
	if err := checkNdvi(r.NdviMean); err != nil {
		return r, colNdvi, err
	}
	return r, "", nil
}

// validateBinary normalizes typed rows that did not come from a sheet.
// firstRow is the source row number of rows[0].
func validateBinary(source string, rows models.BinaryTable, firstRow int) (models.BinaryTable, error) {
	out := make(models.BinaryTable, 0, len(rows))
	for i, r := range rows {
		rec, col, err := normalizeBinary(r)
		if err != nil {
			return nil, &DataLoadError{Source: source, Row: firstRow + i, Column: col, Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

func validateNdvi(source string, rows models.NdviTable, firstRow int) (models.NdviTable, error) {
	out := make(models.NdviTable, 0, len(rows))
	for i, r := range rows {
		rec, col, err := normalizeNdvi(r)
		if err != nil {
			return nil, &DataLoadError{Source: source, Row: firstRow + i, Column: col, Err: err}
		}
		out = append(out, rec)
	}
	return out, nil
}

// checkTable enforces the table-level rules: at least one row and at most one
// row per (district, suitability).
func checkTable[S ~[]R, R models.Record](source string, rows S) error {
	if len(rows) == 0 {
		return &DataLoadError{Source: source, Err: ErrNoRows}
	}

	type key struct {
		district string
		class    models.Suitability
	}
	seen := make(map[key]struct{}, len(rows))
	for _, r := range rows {
		k := key{r.DistrictName(), r.Class()}
		if _, dup := seen[k]; dup {
			return &DataLoadError{
				Source: source,
				Err:    fmt.Errorf("%w: %s/%s", ErrDuplicateClass, k.district, k.class),
			}
		}
		seen[k] = struct{}{}
	}
	return nil
}
