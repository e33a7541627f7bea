package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pable/cricanalyze/internal/config"
	"github.com/pable/cricanalyze/internal/dataset"
	"github.com/pable/cricanalyze/internal/model"
	"github.com/pable/cricanalyze/internal/storage"
	"github.com/pable/cricanalyze/internal/view"
)

// openStorage opens the dataset cache, creating its directory if needed.
func openStorage() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// newLoader builds a loader for cfg.Source. The returned cleanup closes the
// cache when the source is a stored dataset.
func newLoader(cfg config.Config) (*dataset.Loader, func(), error) {
	if name, ok := storage.IsStoreSource(cfg.Source); ok {
		db, err := openStorage()
		if err != nil {
			return nil, nil, err
		}
		return dataset.NewLoader(db.Fetcher(name)), func() { db.Close() }, nil
	}
	return dataset.NewLoader(dataset.FromSource(cfg.Source, cfg.Timeout)), func() {}, nil
}

// loadNow loads cfg.Source to completion, printing the load status.
func loadNow(ctx context.Context, cfg config.Config) (*model.Dataset, error) {
	loader, cleanup, err := newLoader(cfg)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	fmt.Fprintf(os.Stderr, "Loading %s...\n", cfg.Source)
	loader.Start(ctx)
	if err := loader.Wait(ctx); err != nil {
		return nil, err
	}
	ds, err := loader.Dataset()
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(os.Stderr, loader.Status())
	return ds, nil
}

// parseYears reads "2021,2022" or "2021 2022". "all" and "" clear the selection.
func parseYears(fields []string) ([]int, error) {
	var out []int
	for _, f := range fields {
		for _, part := range strings.Split(f, ",") {
			part = strings.TrimSpace(part)
			if part == "" || strings.EqualFold(part, "all") {
				continue
			}
			y, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid year %q", part)
			}
			out = append(out, y)
		}
	}
	return out, nil
}

// viewFlags are the filter and sort options shared by chase and match.
type viewFlags struct {
	years  []string
	rng    string
	result string
	min    int
	sort   []string
}

// actions converts the flags into view actions in a fixed order: filters
// first, then each sort column in turn.
func (f viewFlags) actions() ([]view.Action, error) {
	var out []view.Action
	if len(f.years) > 0 {
		ys, err := parseYears(f.years)
		if err != nil {
			return nil, err
		}
		out = append(out, view.SelectYears{Years: ys})
	}
	if f.rng != "" {
		a, err := view.ParseRangeAction(f.rng)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if f.result != "" {
		a, err := view.ParseResultAction(f.result)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if f.min > 0 {
		out = append(out, view.MinAgreement{N: f.min})
	}
	for _, c := range f.sort {
		out = append(out, view.SortBy{Column: c})
	}
	return out, nil
}
