package models

import (
	"fmt"
	"strings"
)

type Suitability string

const (
	Suitable   Suitability = "Suitable"
	Unsuitable Suitability = "Unsuitable"
)

// Classes lists the suitability values in display order.
var Classes = []Suitability{Suitable, Unsuitable}

// ParseSuitability normalizes a raw cell value. Matching ignores case and
// surrounding whitespace.
func ParseSuitability(s string) (Suitability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "suitable":
		return Suitable, nil
	case "unsuitable":
		return Unsuitable, nil
	default:
		return "", fmt.Errorf("unknown suitability %q", s)
	}
}

func (s Suitability) String() string {
	return string(s)
}

// Record is the common view over binary and NDVI rows used by the
// aggregation functions.
type Record interface {
	DistrictName() string
	Class() Suitability
	Hectares() float64
}

type BinaryRecord struct {
	District    string
	Suitability Suitability
	AreaHa      float64 // hectares, never negative
}

func (r BinaryRecord) DistrictName() string { return r.District }
func (r BinaryRecord) Class() Suitability   { return r.Suitability }
func (r BinaryRecord) Hectares() float64    { return r.AreaHa }

type NdviRecord struct {
	District    string
	Suitability Suitability
	NdviMean    float64 // mean NDVI over the class area, in [-1, 1]
	AreaHa      float64
}

func (r NdviRecord) DistrictName() string { return r.District }
func (r NdviRecord) Class() Suitability   { return r.Suitability }
func (r NdviRecord) Hectares() float64    { return r.AreaHa }

type BinaryTable []BinaryRecord

type NdviTable []NdviRecord
