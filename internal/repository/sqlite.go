package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

func NewSQLiteDB(path string) (*SQLiteDB, error) {
	s, err := open(path)
	if err != nil {
		return nil, err
	}
	if err := s.migrate(); err != nil {
		s.db.Close()
		return nil, fmt.Errorf("error while migrating database: %w", err)
	}

	return s, nil
}

// OpenReadOnly opens an existing database without migrating it. Writes
// through the returned store fail.
func OpenReadOnly(path string) (*SQLiteDB, error) {
	return open("file:" + path + "?mode=ro")
}

func open(dsn string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS suit_binary (
			district TEXT NOT NULL,
			suitability TEXT NOT NULL,
			area_ha REAL NOT NULL,
			PRIMARY KEY (district, suitability)
		);

		CREATE TABLE IF NOT EXISTS suit_ndvi (
			district TEXT NOT NULL,
			suitability TEXT NOT NULL,
			ndvi_mean REAL NOT NULL,
			area_ha REAL NOT NULL,
			PRIMARY KEY (district, suitability)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteDB) ListBinary(ctx context.Context) (models.BinaryTable, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT district, suitability, area_ha FROM suit_binary ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("error querying suit_binary: %w", err)
	}
	defer rows.Close()

	var table models.BinaryTable
	for rows.Next() {
		var r models.BinaryRecord
		if err := rows.Scan(&r.District, &r.Suitability, &r.AreaHa); err != nil {
			return nil, fmt.Errorf("error scanning suit_binary row: %w", err)
		}
		table = append(table, r)
	}
	return table, rows.Err()
}

func (s *SQLiteDB) ListNdvi(ctx context.Context) (models.NdviTable, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT district, suitability, ndvi_mean, area_ha FROM suit_ndvi ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("error querying suit_ndvi: %w", err)
	}
	defer rows.Close()

	var table models.NdviTable
	for rows.Next() {
		var r models.NdviRecord
		if err := rows.Scan(&r.District, &r.Suitability, &r.NdviMean, &r.AreaHa); err != nil {
			return nil, fmt.Errorf("error scanning suit_ndvi row: %w", err)
		}
		table = append(table, r)
	}
	return table, rows.Err()
}

// ReplaceAll swaps the stored tables for the given ones in a single
// transaction.
func (s *SQLiteDB) ReplaceAll(ctx context.Context, binary models.BinaryTable, ndvi models.NdviTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM suit_binary`); err != nil {
		return fmt.Errorf("error clearing suit_binary: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM suit_ndvi`); err != nil {
		return fmt.Errorf("error clearing suit_ndvi: %w", err)
	}

	for _, r := range binary {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO suit_binary (district, suitability, area_ha) VALUES (?, ?, ?)`,
			r.District, string(r.Suitability), r.AreaHa)
		if err != nil {
			return fmt.Errorf("error inserting binary row %s/%s: %w", r.District, r.Suitability, err)
		}
	}
	for _, r := range ndvi {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO suit_ndvi (district, suitability, ndvi_mean, area_ha) VALUES (?, ?, ?, ?)`,
			r.District, string(r.Suitability), r.NdviMean, r.AreaHa)
		if err != nil {
			return fmt.Errorf("error inserting ndvi row %s/%s: %w", r.District, r.Suitability, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
