package chart

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"gonum.org/v1/plot"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/dataset"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/worker"
)

type Kind string

const (
	KindSuitability Kind = "suitability"
	KindNdvi        Kind = "ndvi"
	KindNdviArea    Kind = "ndvi-area"
)

func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindSuitability, KindNdvi, KindNdviArea:
		return k, true
	default:
		return "", false
	}
}

// Renderer produces PNG charts and keeps them in memory. The dataset is
// immutable, so entries only go away on Flush or after the configured TTL.
type Renderer struct {
	cache *cache.Cache
}

func NewRenderer(ttl time.Duration) *Renderer {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Renderer{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func cacheKey(prefix string, params ...any) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}
	return key
}

// Render returns the PNG of one chart for a district. ErrNoData means the
// district has no rows in the table the chart reads.
func (r *Renderer) Render(ds *dataset.Dataset, kind Kind, district string) ([]byte, error) {
	key := cacheKey("chart", kind, district)
	if b, ok := r.cache.Get(key); ok {
		return b.([]byte), nil
	}

	var (
		p   *plot.Plot
		err error
	)
	switch kind {
	case KindSuitability:
		p, err = BinaryBar(district, ds.BinaryFor(district))
	case KindNdvi:
		p, err = NdviBar(district, ds.NdviFor(district))
	case KindNdviArea:
		p, err = NdviScatter(district, ds.NdviFor(district))
	default:
		return nil, fmt.Errorf("unknown chart kind %q", kind)
	}
	if err != nil {
		return nil, err
	}

	b, err := EncodePNG(p)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(key, b)
	return b, nil
}

// PlaceholderMessage is drawn on the image served for every missing map.
const PlaceholderMessage = "Map image not found"

// Placeholder returns the PNG shown instead of a missing map image. The image
// is the same for every map so the cache holds a single entry.
func (r *Renderer) Placeholder() ([]byte, error) {
	key := cacheKey("placeholder")
	if b, ok := r.cache.Get(key); ok {
		return b.([]byte), nil
	}

	p, err := Placeholder(PlaceholderMessage)
	if err != nil {
		return nil, err
	}
	b, err := EncodePNG(p)
	if err != nil {
		return nil, err
	}
	r.cache.SetDefault(key, b)
	return b, nil
}

func (r *Renderer) Flush() {
	r.cache.Flush()
}

func (r *Renderer) Cached() int {
	return r.cache.ItemCount()
}

type warmJob struct {
	kind     Kind
	district string
}

// Warm renders every chart of every district on a worker pool. It returns
// once all charts are rendered or ctx is done.
func (r *Renderer) Warm(ctx context.Context, ds *dataset.Dataset, workers, buffer int) (rendered int64, failed int64) {
	start := time.Now()
	var ok atomic.Int64

	pool := worker.NewPool[warmJob](workers, buffer, func(ctx context.Context, job warmJob) error {
		if _, err := r.Render(ds, job.kind, job.district); err != nil {
			return fmt.Errorf("render %s for %s: %w", job.kind, job.district, err)
		}
		ok.Add(1)
		return nil
	})
	pool.Start(ctx)

	var jobs []warmJob
	for _, d := range dataset.Districts(ds.Binary) {
		jobs = append(jobs, warmJob{KindSuitability, d})
	}
	for _, d := range dataset.Districts(ds.Ndvi) {
		jobs = append(jobs, warmJob{KindNdvi, d}, warmJob{KindNdviArea, d})
	}
	for _, job := range jobs {
		if !pool.Submit(ctx, job) {
			break
		}
	}

	pool.Stop()

	slog.Info("chart cache warmed",
		"rendered", ok.Load(),
		"failed", pool.Failed(),
		"duration", time.Since(start),
	)
	return ok.Load(), pool.Failed()
}
