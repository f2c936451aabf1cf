package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrSourceNotFound = errors.New("source not found")
	ErrMissingColumn  = errors.New("missing required column")
	ErrNoRows         = errors.New("no data rows")
	ErrDuplicateClass = errors.New("duplicate suitability class for district")
)

// DataLoadError reports a source that could not be read or a row that failed
// validation. It is fatal at startup.
type DataLoadError struct {
	Source string // file path or table name
	Row    int    // 1-based row in the source, 0 when not row specific
	Column string
	Err    error
}

func (e *DataLoadError) Error() string {
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("load %s: row %d, column %s: %v", e.Source, e.Row, e.Column, e.Err)
	case e.Row > 0:
		return fmt.Sprintf("load %s: row %d: %v", e.Source, e.Row, e.Err)
	case e.Column != "":
		return fmt.Sprintf("load %s: column %s: %v", e.Source, e.Column, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Source, e.Err)
	}
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

func asLoadError(source string, err error) error {
	var loadErr *DataLoadError
	if errors.As(err, &loadErr) {
		return err
	}
	return &DataLoadError{Source: source, Err: err}
}
