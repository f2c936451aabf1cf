package insight

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/models"
)

// MissingClassError means a district lacks NDVI data for one suitability
// class, so no comparison can be made.
type MissingClassError struct {
	District string
	Class    models.Suitability
}

func (e *MissingClassError) Error() string {
	return fmt.Sprintf("district %q has no %s NDVI record", e.District, e.Class)
}

func TotalArea[R models.Record](rows []R) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.Hectares()
	}
	return sum
}

func SuitableArea[R models.Record](rows []R) float64 {
	return classArea(rows, models.Suitable)
}

func UnsuitableArea[R models.Record](rows []R) float64 {
	return classArea(rows, models.Unsuitable)
}

func classArea[R models.Record](rows []R, class models.Suitability) float64 {
	var sum float64
	for _, r := range rows {
		if r.Class() == class {
			sum += r.Hectares()
		}
	}
	return sum
}

// SuitablePercentage is the suitable share of the total area. It is 0 when
// the total is 0.
func SuitablePercentage[R models.Record](rows []R) float64 {
	total := TotalArea(rows)
	if total <= 0 {
		return 0
	}
	return SuitableArea(rows) / total * 100
}

type Summary struct {
	TotalHa      float64 `json:"total_ha"`
	SuitableHa   float64 `json:"suitable_ha"`
	UnsuitableHa float64 `json:"unsuitable_ha"`
	SuitablePct  float64 `json:"suitable_pct"`
}

func Summarize[R models.Record](rows []R) Summary {
	return Summary{
		TotalHa:      TotalArea(rows),
		SuitableHa:   SuitableArea(rows),
		UnsuitableHa: UnsuitableArea(rows),
		SuitablePct:  SuitablePercentage(rows),
	}
}

// Metric is one labelled, display-formatted value.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Metrics formats the summary the way the overview page shows it: hectares
// with thousands separators and no decimals, percentage with one decimal.
func (s Summary) Metrics() []Metric {
	return []Metric{
		{Label: "Total area (ha)", Value: FormatHectares(s.TotalHa)},
		{Label: "Suitable area (ha)", Value: FormatHectares(s.SuitableHa)},
		{Label: "Suitable (%)", Value: fmt.Sprintf("%.1f%%", s.SuitablePct)},
	}
}

// FormatHectares rounds half to even, so 300.5 shows as "300".
func FormatHectares(v float64) string {
	return humanize.Comma(int64(math.RoundToEven(v)))
}

type NdviInsight struct {
	District   string  `json:"district"`
	Suitable   float64 `json:"ndvi_suitable"`
	Unsuitable float64 `json:"ndvi_unsuitable"`
	Diff       float64 `json:"diff"`
}

// Ndvi compares the mean NDVI of the Suitable and Unsuitable classes of one
// district. The first record of each class is used.
func Ndvi(district string, rows []models.NdviRecord) (NdviInsight, error) {
	values := make(map[models.Suitability]float64, 2)
	for _, r := range rows {
		if r.District != district {
			continue
		}
		if _, ok := values[r.Suitability]; !ok {
			values[r.Suitability] = r.NdviMean
		}
	}

	for _, class := range models.Classes {
		if _, ok := values[class]; !ok {
			return NdviInsight{}, &MissingClassError{District: district, Class: class}
		}
	}

	s, u := values[models.Suitable], values[models.Unsuitable]
	return NdviInsight{
		District:   district,
		Suitable:   s,
		Unsuitable: u,
		Diff:       s - u,
	}, nil
}

func FormatNdvi(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Sentence renders the insight text. The comparison word follows the
// difference as displayed, so 0.004 reads as "the same".
func (n NdviInsight) Sentence() string {
	diff := FormatNdvi(n.Diff)
	var cmp string
	switch {
	case diff == "0.00" || diff == "-0.00":
		cmp = "the same mean NDVI as"
	case n.Diff > 0:
		cmp = "a higher mean NDVI than"
	default:
		cmp = "a lower mean NDVI than"
	}
	return fmt.Sprintf(
		"In %s, areas classified as Suitable show %s Unsuitable areas (%s vs %s). NDVI difference: %s",
		n.District, cmp, FormatNdvi(n.Suitable), FormatNdvi(n.Unsuitable), diff,
	)
}
