package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/config"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/models"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/repository"
)

func sampleBinary() models.BinaryTable {
	return models.BinaryTable{
		{District: "Qarabagh", Suitability: models.Suitable, AreaHa: 1200},
		{District: "Andar", Suitability: models.Unsuitable, AreaHa: 40},
		{District: "Qarabagh", Suitability: models.Unsuitable, AreaHa: 800},
		{District: "Andar", Suitability: models.Suitable, AreaHa: 60},
		{District: "Giro", Suitability: models.Suitable, AreaHa: 0},
	}
}

func sampleNdvi() models.NdviTable {
	return models.NdviTable{
		{District: "Qarabagh", Suitability: models.Suitable, NdviMean: 0.62, AreaHa: 1200},
		{District: "Qarabagh", Suitability: models.Unsuitable, NdviMean: 0.31, AreaHa: 800},
	}
}

func TestDistricts_SortedAndUnique(t *testing.T) {
	got := Districts(sampleBinary())
	want := []string{"Andar", "Giro", "Qarabagh"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	reversed := sampleBinary()
	slices.Reverse(reversed)
	if !slices.Equal(Districts(reversed), want) {
		t.Errorf("district order depends on row order: %v", Districts(reversed))
	}
}

func TestDistricts_Empty(t *testing.T) {
	if got := Districts(models.NdviTable{}); len(got) != 0 {
		t.Errorf("expected no districts, got %v", got)
	}
}

func TestFilterByDistrict(t *testing.T) {
	rows := FilterByDistrict(sampleBinary(), "Qarabagh")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.District != "Qarabagh" {
			t.Errorf("unexpected district %q", r.District)
		}
	}

	// exact, case-sensitive
	if rows := FilterByDistrict(sampleBinary(), "qarabagh"); len(rows) != 0 {
		t.Errorf("expected no rows for lowercase name, got %d", len(rows))
	}

	unknown := FilterByDistrict(sampleBinary(), "Nowhere")
	if unknown == nil || len(unknown) != 0 {
		t.Errorf("expected empty non-nil table, got %#v", unknown)
	}
}

func TestHasDistrict(t *testing.T) {
	if !HasDistrict(sampleNdvi(), "Qarabagh") {
		t.Error("expected Qarabagh to be present")
	}
	if HasDistrict(sampleNdvi(), "Andar") {
		t.Error("expected Andar to be absent from the ndvi table")
	}
}

func TestLoader_LoadIsMemoized(t *testing.T) {
	src := &countingSource{StaticSource: StaticSource{Binary: sampleBinary(), Ndvi: sampleNdvi()}}
	loader := NewLoader(src)

	first, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if first != second {
		t.Error("expected the cached dataset to be returned")
	}
	if src.reads != 1 {
		t.Errorf("expected 1 read, got %d", src.reads)
	}
}

func TestLoader_InvalidateRereadsSameTables(t *testing.T) {
	path := binaryWorkbook(t)
	ndvi := ndviWorkbook(t)
	loader := NewLoader(&XLSXSource{BinaryPath: path, NdviPath: ndvi})

	first, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	loader.Invalidate()

	second, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if first == second {
		t.Error("expected a fresh dataset after Invalidate")
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("reloading unchanged sources changed the tables:\n%+v\n%+v", first, second)
	}
}

func TestLoader_DuplicateClass(t *testing.T) {
	binary := append(sampleBinary(), models.BinaryRecord{District: "Giro", Suitability: models.Suitable, AreaHa: 5})
	loader := NewLoader(&StaticSource{Binary: binary, Ndvi: sampleNdvi()})

	_, err := loader.Load(context.Background())
	if !errors.Is(err, ErrDuplicateClass) {
		t.Errorf("expected ErrDuplicateClass, got %v", err)
	}
}

func TestLoader_EmptyTable(t *testing.T) {
	loader := NewLoader(&StaticSource{Binary: sampleBinary()})

	_, err := loader.Load(context.Background())
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) || !errors.Is(err, ErrNoRows) {
		t.Errorf("expected DataLoadError wrapping ErrNoRows, got %v", err)
	}
}

func TestLoader_InvalidStaticRow(t *testing.T) {
	ndvi := sampleNdvi()
	ndvi[1].NdviMean = -1.2
	loader := NewLoader(&StaticSource{Binary: sampleBinary(), Ndvi: ndvi})

	_, err := loader.Load(context.Background())
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected DataLoadError, got %v", err)
	}
	if loadErr.Row != 2 || loadErr.Column != colNdvi {
		t.Errorf("expected row 2 column ndvi_mean, got row %d column %q", loadErr.Row, loadErr.Column)
	}
}

func TestLoader_WrapsPlainErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(&StaticSource{Binary: sampleBinary(), Ndvi: sampleNdvi()}).Load(ctx)
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected DataLoadError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected the cause to be kept, got %v", err)
	}
}

func TestSQLiteSource_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suitability.db")
	db, err := repository.NewSQLiteDB(path)
	if err != nil {
		t.Fatalf("NewSQLiteDB failed: %v", err)
	}
	if err := db.ReplaceAll(context.Background(), sampleBinary(), sampleNdvi()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	db.Close()

	ds, err := NewLoader(&SQLiteSource{Path: path}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(ds.Binary, sampleBinary()) {
		t.Errorf("binary rows differ:\n%+v", ds.Binary)
	}
	if !reflect.DeepEqual(ds.Ndvi, sampleNdvi()) {
		t.Errorf("ndvi rows differ:\n%+v", ds.Ndvi)
	}
}

func TestSQLiteSource_MissingFileIsNotCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")

	_, err := NewLoader(&SQLiteSource{Path: path}).Load(context.Background())
	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("expected ErrSourceNotFound, got %v", err)
	}
	if _, statErr := (&SQLiteSource{Path: path}).open(); !errors.Is(statErr, ErrSourceNotFound) {
		t.Errorf("file was created by a read: %v", statErr)
	}
}

func TestSQLiteSource_MissingTablesAreNotCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader(&SQLiteSource{Path: path}).Load(context.Background())
	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected DataLoadError, got %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("loading wrote %d bytes to the source", info.Size())
	}
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(config.DataConfig{Source: "sqlite", SQLitePath: "x.db"})
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}
	if _, ok := src.(*SQLiteSource); !ok {
		t.Errorf("expected *SQLiteSource, got %T", src)
	}

	src, err = NewSource(config.DataConfig{Source: "xlsx", BinaryPath: "a.xlsx", NdviPath: "b.xlsx"})
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}
	if x, ok := src.(*XLSXSource); !ok || x.NdviPath != "b.xlsx" {
		t.Errorf("unexpected source %#v", src)
	}

	if _, err := NewSource(config.DataConfig{Source: "csv"}); err == nil {
		t.Error("expected error for unknown source")
	}
}

type countingSource struct {
	StaticSource
	reads int
}

func (c *countingSource) ReadBinary(ctx context.Context) (models.BinaryTable, error) {
	c.reads++
	return c.StaticSource.ReadBinary(ctx)
}
