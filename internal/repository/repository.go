package repository

import (
	"context"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/models"
)

// SuitabilityReader returns the stored tables in insertion order. Rows are
// returned as stored; suitability values are not normalized here.
type SuitabilityReader interface {
	ListBinary(ctx context.Context) (models.BinaryTable, error)
	ListNdvi(ctx context.Context) (models.NdviTable, error)
}

type SuitabilityWriter interface {
	ReplaceAll(ctx context.Context, binary models.BinaryTable, ndvi models.NdviTable) error
}
