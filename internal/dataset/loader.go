package dataset

import (
	"context"
	"log/slog"
	"sync"
)

// Loader reads a Source once and serves the cached Dataset afterwards.
// Construct one per process and hand it to every consumer.
type Loader struct {
	src  Source
	mu   sync.Mutex
	data *Dataset
}

func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// Load returns the cached dataset, reading the source on first use. Every
// failure is a *DataLoadError.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.data != nil {
		return l.data, nil
	}

	name := l.src.Name()

	binary, err := l.src.ReadBinary(ctx)
	if err != nil {
		return nil, asLoadError(name, err)
	}
	if err := checkTable(name+"#binary", binary); err != nil {
		return nil, err
	}

	ndvi, err := l.src.ReadNdvi(ctx)
	if err != nil {
		return nil, asLoadError(name, err)
	}
	if err := checkTable(name+"#ndvi", ndvi); err != nil {
		return nil, err
	}

	l.data = &Dataset{Binary: binary, Ndvi: ndvi}

	slog.Info("dataset loaded",
		"source", name,
		"binary_rows", len(binary),
		"ndvi_rows", len(ndvi),
		"districts", len(Districts(binary)),
	)
	return l.data, nil
}

// Invalidate drops the cached dataset so the next Load re-reads the source.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.data = nil
	l.mu.Unlock()
}
