package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/models"
)

// XLSXSource reads the two precomputed workbooks. An empty sheet name means
// the first sheet of the workbook.
type XLSXSource struct {
	BinaryPath  string
	BinarySheet string
	NdviPath    string
	NdviSheet   string
}

func (s *XLSXSource) Name() string {
	return "xlsx"
}

func (s *XLSXSource) ReadBinary(ctx context.Context) (models.BinaryTable, error) {
	sheet, err := openSheet(ctx, s.BinaryPath, s.BinarySheet, colDistrict, colSuitability, colArea)
	if err != nil {
		return nil, err
	}

	table := make(models.BinaryTable, 0, len(sheet.rows))
	for i, row := range sheet.rows {
		if blank(row) {
			continue
		}
		rowNum := i + 2 // header is row 1

		area, err := parseNumber(sheet.cell(row, colArea))
		if err != nil {
			return nil, &DataLoadError{Source: s.BinaryPath, Row: rowNum, Column: colArea, Err: err}
		}
		rec, col, err := normalizeBinary(models.BinaryRecord{
			District:    sheet.cell(row, colDistrict),
			Suitability: models.Suitability(sheet.cell(row, colSuitability)),
			AreaHa:      area,
		})
		if err != nil {
			return nil, &DataLoadError{Source: s.BinaryPath, Row: rowNum, Column: col, Err: err}
		}
		table = append(table, rec)
	}
	return table, nil
}

func (s *XLSXSource) ReadNdvi(ctx context.Context) (models.NdviTable, error) {
	sheet, err := openSheet(ctx, s.NdviPath, s.NdviSheet, colDistrict, colSuitability, colNdvi, colArea)
	if err != nil {
		return nil, err
	}

	table := make(models.NdviTable, 0, len(sheet.rows))
	for i, row := range sheet.rows {
		if blank(row) {
			continue
		}
		rowNum := i + 2

		ndvi, err := parseNumber(sheet.cell(row, colNdvi))
		if err != nil {
			return nil, &DataLoadError{Source: s.NdviPath, Row: rowNum, Column: colNdvi, Err: err}
		}
		area, err := parseNumber(sheet.cell(row, colArea))
		if err != nil {
			return nil, &DataLoadError{Source: s.NdviPath, Row: rowNum, Column: colArea, Err: err}
		}
		rec, col, err := normalizeNdvi(models.NdviRecord{
			District:    sheet.cell(row, colDistrict),
			Suitability: models.Suitability(sheet.cell(row, colSuitability)),
			NdviMean:    ndvi,
			AreaHa:      area,
		})
		if err != nil {
			return nil, &DataLoadError{Source: s.NdviPath, Row: rowNum, Column: col, Err: err}
		}
		table = append(table, rec)
	}
	return table, nil
}

type sheetData struct {
	columns map[string]int
	rows    [][]string // data rows, header excluded
}

func (d *sheetData) cell(row []string, column string) string {
	idx := d.columns[column]
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func openSheet(ctx context.Context, path, sheet string, required ...string) (*sheetData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DataLoadError{Source: path, Err: ErrSourceNotFound}
		}
		return nil, &DataLoadError{Source: path, Err: err}
	}
	if info.IsDir() {
		return nil, &DataLoadError{Source: path, Err: fmt.Errorf("%w: is a directory", ErrSourceNotFound)}
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &DataLoadError{Source: path, Err: fmt.Errorf("error opening workbook: %w", err)}
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &DataLoadError{Source: path, Err: fmt.Errorf("error reading sheet %q: %w", sheet, err)}
	}
	if len(rows) == 0 {
		return nil, &DataLoadError{Source: path, Err: ErrNoRows}
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := columns[key]; !dup && key != "" {
			columns[key] = i
		}
	}
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			return nil, &DataLoadError{Source: path, Column: col, Err: ErrMissingColumn}
		}
	}

	return &sheetData{columns: columns, rows: rows[1:]}, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
