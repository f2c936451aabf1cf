package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/config"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/models"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/repository"
)

// Source produces the raw tables. Implementations validate each row; the
// Loader checks table-level rules.
type Source interface {
	Name() string
	ReadBinary(ctx context.Context) (models.BinaryTable, error)
	ReadNdvi(ctx context.Context) (models.NdviTable, error)
}

// SQLiteSource reads a snapshot written by suitctl snapshot. The file is
// opened read-only and never migrated.
type SQLiteSource struct {
	Path string
}

func (s *SQLiteSource) Name() string {
	return "sqlite"
}

func (s *SQLiteSource) ReadBinary(ctx context.Context) (models.BinaryTable, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.ListBinary(ctx)
	if err != nil {
		return nil, &DataLoadError{Source: s.Path + "#suit_binary", Err: err}
	}
	return validateBinary(s.Path+"#suit_binary", rows, 1)
}

func (s *SQLiteSource) ReadNdvi(ctx context.Context) (models.NdviTable, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.ListNdvi(ctx)
	if err != nil {
		return nil, &DataLoadError{Source: s.Path + "#suit_ndvi", Err: err}
	}
	return validateNdvi(s.Path+"#suit_ndvi", rows, 1)
}

func (s *SQLiteSource) open() (*repository.SQLiteDB, error) {
	// A missing file is ErrSourceNotFound, not a driver error.
	if _, err := os.Stat(s.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DataLoadError{Source: s.Path, Err: ErrSourceNotFound}
		}
		return nil, &DataLoadError{Source: s.Path, Err: err}
	}
	db, err := repository.OpenReadOnly(s.Path)
	if err != nil {
		return nil, &DataLoadError{Source: s.Path, Err: err}
	}
	return db, nil
}

// StaticSource serves tables held in memory.
type StaticSource struct {
	Binary models.BinaryTable
	Ndvi   models.NdviTable
}

func (s *StaticSource) Name() string {
	return "static"
}

func (s *StaticSource) ReadBinary(ctx context.Context) (models.BinaryTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return validateBinary("static#binary", slices.Clone(s.Binary), 1)
}

func (s *StaticSource) ReadNdvi(ctx context.Context) (models.NdviTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return validateNdvi("static#ndvi", slices.Clone(s.Ndvi), 1)
}

// NewSource picks the source named by the configuration.
func NewSource(cfg config.DataConfig) (Source, error) {
	switch cfg.Source {
	case "xlsx":
		return &XLSXSource{
			BinaryPath:  cfg.BinaryPath,
			BinarySheet: cfg.BinarySheet,
			NdviPath:    cfg.NdviPath,
			NdviSheet:   cfg.NdviSheet,
		}, nil
	case "sqlite":
		return &SQLiteSource{Path: cfg.SQLitePath}, nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Source)
	}
}
