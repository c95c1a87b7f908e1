package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"gamelens/internal/analytics"
	"gamelens/internal/infrastructure"
)

// maxConcurrentLoads bounds how many dataset files are parsed at once.
const maxConcurrentLoads = 8

// Repository loads raw game documents from a dataset directory, normalizes
// them once and memoizes the result. Progress files written by the collector
// while a scrape is still running are never part of the dataset.
type Repository struct {
	dir    string
	logger *slog.Logger

	mu      sync.RWMutex
	records []analytics.GameRecord
	loaded  bool
}

// New creates a repository over a dataset directory using the default logger.
func New(dir string) *Repository {
	return NewWithLogger(dir, slog.Default())
}

// NewWithLogger creates a repository with a specific logger.
func NewWithLogger(dir string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{dir: dir, logger: logger}
}

// Dir returns the dataset directory the repository reads from.
func (r *Repository) Dir() string {
	return r.dir
}

// All returns every normalized record in the dataset, loading and caching on
// first use. Unreadable or malformed files are logged and skipped; only a
// missing dataset directory is an error. The returned slice is shared and
// must not be mutated by callers.
func (r *Repository) All(ctx context.Context) ([]analytics.GameRecord, error) {
	r.mu.RLock()
	if r.loaded {
		records := r.records
		r.mu.RUnlock()
		return records, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return r.records, nil
	}

	records, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	r.records = records
	r.loaded = true
	return records, nil
}

// Invalidate drops the cached records so the next All reloads from disk.
func (r *Repository) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	r.loaded = false
}

// Reload invalidates the cache and loads the dataset again.
func (r *Repository) Reload(ctx context.Context) ([]analytics.GameRecord, error) {
	r.Invalidate()
	return r.All(ctx)
}

// fileRecords keeps per-file results so the merged dataset is ordered by
// file path regardless of load completion order.
type fileRecords struct {
	path    string
	records []analytics.GameRecord
}

func (r *Repository) load(ctx context.Context) ([]analytics.GameRecord, error) {
	paths, err := r.datasetFiles()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		r.logger.Warn("dataset directory contains no game documents",
			slog.String("dir", r.dir))
		return []analytics.GameRecord{}, nil
	}

	results := make([]fileRecords, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := r.loadFile(path)
			if err != nil {
				infrastructure.WithError(r.logger, err).Warn("skipping unreadable dataset file",
					slog.String("path", path))
				return nil
			}
			results[i] = fileRecords{path: path, records: records}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dataset load canceled: %w", err)
	}

	var merged []analytics.GameRecord
	for _, fr := range results {
		merged = append(merged, fr.records...)
	}
	if merged == nil {
		merged = []analytics.GameRecord{}
	}

	r.logger.Info("dataset loaded",
		slog.String("dir", r.dir),
		slog.Int("files", len(paths)),
		slog.Int("records", len(merged)))
	return merged, nil
}

// datasetFiles lists the JSON documents of the dataset, sorted by path.
func (r *Repository) datasetFiles() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory %s: %w", r.dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		if strings.Contains(name, "_progress") {
			continue
		}
		paths = append(paths, filepath.Join(r.dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}

// loadFile parses one dataset file. A file holds either a single game
// document or an array of them.
func (r *Repository) loadFile(path string) ([]analytics.GameRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var docs []map[string]any
	if err := json.Unmarshal(data, &docs); err != nil {
		var single map[string]any
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		docs = []map[string]any{single}
	}

	records := make([]analytics.GameRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, analytics.NormalizeRecord(doc))
	}
	return records, nil
}
