package options

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

// Fetcher returns a raw collection; *api.Client satisfies it
type Fetcher interface {
	ListRaw(ctx context.Context, endpoint string) ([]json.RawMessage, error)
}

// Loader fetches the reference collections a form needs
type Loader struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewLoader creates a loader backed by f
func NewLoader(f Fetcher, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{fetcher: f, logger: logger}
}

// Load fetches every kind concurrently and waits for all of them. A kind
// whose fetch fails is logged and comes back as an empty list; Load itself
// never fails.
func (l *Loader) Load(ctx context.Context, kinds []model.Kind) map[model.Kind][]model.Record {
	out := make(map[model.Kind][]model.Record, len(kinds))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, k := range uniq(kinds) {
		wg.Add(1)
		go func(k model.Kind) {
			defer wg.Done()
			recs := l.fetch(ctx, k)
			mu.Lock()
			out[k] = recs
			mu.Unlock()
		}(k)
	}

	wg.Wait()
	return out
}

func (l *Loader) fetch(ctx context.Context, k model.Kind) []model.Record {
	info, err := model.Lookup(k)
	if err != nil {
		l.logger.Warn("options: unknown kind", "kind", string(k))
		return []model.Record{}
	}
	raw, err := l.fetcher.ListRaw(ctx, k.Endpoint())
	if err != nil {
		l.logger.Warn("options: fetch failed", "kind", string(k), "error", err)
		return []model.Record{}
	}
	recs, err := info.Decode(raw)
	if err != nil {
		l.logger.Warn("options: decode failed", "kind", string(k), "error", err)
		return []model.Record{}
	}
	return recs
}

func uniq(kinds []model.Kind) []model.Kind {
	seen := make(map[model.Kind]bool, len(kinds))
	out := make([]model.Kind, 0, len(kinds))
	for _, k := range kinds {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
