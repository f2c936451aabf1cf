package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sync"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/assets"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/criteria"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/dataset"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/insight"
)

var ErrUnknownDistrict = errors.New("unknown district")

type ModeID string

const (
	ModeRegionalContext ModeID = "regional-context"
	ModeOverview        ModeID = "district-overview"
	ModeComparison      ModeID = "suitability-vs-ndvi"
)

type Mode struct {
	ID    ModeID `json:"id"`
	Label string `json:"label"`
}

func Modes() []Mode {
	return []Mode{
		{ID: ModeRegionalContext, Label: "Regional context & criteria"},
		{ID: ModeOverview, Label: "Single district overview"},
		{ID: ModeComparison, Label: "Suitability vs NDVI"},
	}
}

type Table string

const (
	TableBinary Table = "binary"
	TableNdvi   Table = "ndvi"
)

// Service builds the three dashboard views from the shared loader.
type Service struct {
	loader   *dataset.Loader
	assets   *assets.Store
	criteria *criteria.Criteria

	mu           sync.Mutex
	onInvalidate []func()
}

func NewService(loader *dataset.Loader, store *assets.Store, crit *criteria.Criteria) *Service {
	return &Service{
		loader:   loader,
		assets:   store,
		criteria: crit,
	}
}

// OnInvalidate registers fn to run after the dataset is dropped, so caches
// derived from it can be flushed.
func (s *Service) OnInvalidate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onInvalidate = append(s.onInvalidate, fn)
}

// Invalidate drops the loaded dataset and everything derived from it. The
// next request re-reads the source.
func (s *Service) Invalidate() {
	s.loader.Invalidate()

	s.mu.Lock()
	hooks := slices.Clone(s.onInvalidate)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	slog.Info("dataset invalidated", "hooks", len(hooks))
}

// Dataset exposes the loaded tables to chart rendering.
func (s *Service) Dataset(ctx context.Context) (*dataset.Dataset, error) {
	return s.loader.Load(ctx)
}

// Districts lists the selectable districts of one table.
func (s *Service) Districts(ctx context.Context, table Table) ([]string, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	switch table {
	case TableBinary:
		return dataset.Districts(ds.Binary), nil
	case TableNdvi:
		return dataset.Districts(ds.Ndvi), nil
	default:
		return nil, fmt.Errorf("unknown table %q", table)
	}
}

// MapRef points at a map image. A missing image keeps the view usable and
// carries a warning instead.
type MapRef struct {
	Available bool   `json:"available"`
	URL       string `json:"url"`
	Warning   string `json:"warning,omitempty"`
}

const mapWarning = "Map image not found. Please check file name or path."

func mapRef(u string, resolve func() (string, error)) MapRef {
	ref := MapRef{URL: u}
	if _, err := resolve(); err != nil {
		var notFound *assets.AssetNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("map lookup failed", "url", u, "error", err)
		}
		ref.Warning = mapWarning
		return ref
	}
	ref.Available = true
	return ref
}

type RegionalView struct {
	Title     string   `json:"title"`
	Elevation MapRef   `json:"elevation_map"`
	Criteria  []string `json:"criteria"`
	Notes     []string `json:"notes"`
}

func (s *Service) RegionalContext() RegionalView {
	return RegionalView{
		Title:     fmt.Sprintf("%s region — physical context", s.criteria.Region),
		Elevation: mapRef("/api/maps/elevation", s.assets.Elevation),
		Criteria:  s.criteria.Summary(),
		Notes:     s.criteria.Notes,
	}
}

type AreaRow struct {
	Suitability string  `json:"suitability"`
	AreaHa      float64 `json:"area_ha"`
}

type OverviewView struct {
	District string           `json:"district"`
	Rows     []AreaRow        `json:"rows"`
	Summary  insight.Summary  `json:"summary"`
	Metrics  []insight.Metric `json:"metrics"`
	Chart    string           `json:"chart_url"`
	Map      MapRef           `json:"map"`
}

// Overview is the single district page backed by the binary table.
func (s *Service) Overview(ctx context.Context, district string) (*OverviewView, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	rows := ds.BinaryFor(district)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDistrict, district)
	}

	view := &OverviewView{
		District: district,
		Rows:     make([]AreaRow, 0, len(rows)),
		Summary:  insight.Summarize(rows),
		Chart:    districtPath(district, "charts", "suitability"),
		Map: mapRef(mapPath(district), func() (string, error) {
			return s.assets.DistrictMap(district)
		}),
	}
	view.Metrics = view.Summary.Metrics()
	for _, r := range rows {
		view.Rows = append(view.Rows, AreaRow{Suitability: r.Suitability.String(), AreaHa: r.AreaHa})
	}
	return view, nil
}

type NdviRow struct {
	Suitability string  `json:"suitability"`
	NdviMean    float64 `json:"ndvi_mean"`
	AreaHa      float64 `json:"area_ha"`
}

type ComparisonView struct {
	District    string               `json:"district"`
	Rows        []NdviRow            `json:"rows"`
	Insight     *insight.NdviInsight `json:"insight,omitempty"`
	InsightText string               `json:"insight_text,omitempty"`
	Warning     string               `json:"warning,omitempty"`
	Charts      []string             `json:"chart_urls"`
	Map         MapRef               `json:"map"`
}

// Comparison is the suitability vs NDVI page. A district missing one class
// still renders, with a warning in place of the insight.
func (s *Service) Comparison(ctx context.Context, district string) (*ComparisonView, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	rows := ds.NdviFor(district)
	if len(rows) == 0 && !dataset.HasDistrict(ds.Binary, district) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDistrict, district)
	}

	view := &ComparisonView{
		District: district,
		Rows:     make([]NdviRow, 0, len(rows)),
		Map: mapRef(mapPath(district)+"/ndvi", func() (string, error) {
			return s.assets.NdviOverlay(district)
		}),
	}
	for _, r := range rows {
		view.Rows = append(view.Rows, NdviRow{
			Suitability: r.Suitability.String(),
			NdviMean:    r.NdviMean,
			AreaHa:      r.AreaHa,
		})
	}
	if len(rows) > 0 {
		view.Charts = []string{
			districtPath(district, "charts", "ndvi"),
			districtPath(district, "charts", "ndvi-area"),
		}
	} else {
		view.Charts = []string{}
	}

	ins, err := insight.Ndvi(district, rows)
	if err != nil {
		var missing *insight.MissingClassError
		if !errors.As(err, &missing) {
			return nil, err
		}
		slog.Warn("ndvi insight unavailable", "district", district, "error", err)
		view.Warning = "Insufficient data for this district: " + err.Error()
		return view, nil
	}
	view.Insight = &ins
	view.InsightText = ins.Sentence()
	return view, nil
}

func districtPath(district string, parts ...string) string {
	p := "/api/districts/" + url.PathEscape(district)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

func mapPath(district string) string {
	return "/api/maps/districts/" + url.PathEscape(district)
}
