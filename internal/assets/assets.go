package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const DefaultElevationMap = "elev_qarabagh_suit.jpg"

// AssetNotFoundError is returned for a map image that cannot be served.
// Callers degrade to a placeholder.
type AssetNotFoundError struct {
	Path   string
	Reason string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("map image not found: %s (%s)", e.Path, e.Reason)
}

// Store resolves the upstream map images in a single directory. Files are
// passed through unmodified.
type Store struct {
	dir       string
	elevation string
}

func NewStore(dir, elevation string) *Store {
	if elevation == "" {
		elevation = DefaultElevationMap
	}
	return &Store{dir: dir, elevation: elevation}
}

// DistrictMap is the suitability map of a district, named by its lowercase
// name.
func (s *Store) DistrictMap(district string) (string, error) {
	return s.resolve(strings.ToLower(district) + ".jpg")
}

// NdviOverlay is the suitability map with the NDVI overlay.
func (s *Store) NdviOverlay(district string) (string, error) {
	return s.resolve(strings.ToLower(district) + "_ndvi_suit.jpg")
}

func (s *Store) Elevation() (string, error) {
	return s.resolve(s.elevation)
}

func (s *Store) resolve(name string) (string, error) {
	path := filepath.Join(s.dir, name)
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return "", &AssetNotFoundError{Path: path, Reason: "invalid name"}
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", &AssetNotFoundError{Path: path, Reason: err.Error()}
	}
	if !info.Mode().IsRegular() {
		return "", &AssetNotFoundError{Path: path, Reason: "not a regular file"}
	}
	return path, nil
}
