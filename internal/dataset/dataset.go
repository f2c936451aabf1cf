package dataset

import (
	"slices"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/models"
)

// Dataset holds both suitability tables. It is never modified after load.
type Dataset struct {
	Binary models.BinaryTable
	Ndvi   models.NdviTable
}

// BinaryFor returns the binary rows of one district.
func (d *Dataset) BinaryFor(district string) models.BinaryTable {
	return FilterByDistrict(d.Binary, district)
}

// NdviFor returns the NDVI rows of one district.
func (d *Dataset) NdviFor(district string) models.NdviTable {
	return FilterByDistrict(d.Ndvi, district)
}

// Districts returns the distinct district names of rows in lexicographic
// order, whatever the source order was.
func Districts[S ~[]R, R models.Record](rows S) []string {
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.DistrictName())
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// FilterByDistrict keeps the rows whose district matches name exactly
// (case-sensitive). An unknown name yields an empty table.
func FilterByDistrict[S ~[]R, R models.Record](rows S, name string) S {
	out := make(S, 0, 2)
	for _, r := range rows {
		if r.DistrictName() == name {
			out = append(out, r)
		}
	}
	return out
}

// HasDistrict reports whether any row belongs to name.
func HasDistrict[S ~[]R, R models.Record](rows S, name string) bool {
	return slices.ContainsFunc(rows, func(r R) bool {
		return r.DistrictName() == name
	})
}
