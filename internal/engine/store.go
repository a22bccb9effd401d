package engine

import (
	"context"
	"log/slog"
	"sync"

	"databrowser/internal/models"

	"golang.org/x/sync/singleflight"
)

// Dataset is a load-once handle to the table at a fixed path.
// The first Get triggers the load; concurrent first callers share it.
// The result, failure included, is kept until the process exits.
type Dataset struct {
	path   string
	schema models.Schema
	logger *slog.Logger
	load   func(string, models.Schema, *slog.Logger) (*models.Table, error)

	group singleflight.Group

	mu     sync.RWMutex
	loaded bool
	table  *models.Table
	err    error
}

type loadResult struct {
	table *models.Table
	err   error
}

func NewDataset(path string, schema models.Schema, logger *slog.Logger) *Dataset {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dataset{path: path, schema: schema, logger: logger, load: LoadTable}
}

func (d *Dataset) Path() string { return d.path }

// Loaded reports whether the load has finished (successfully or not).
func (d *Dataset) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// Get returns the table. The returned table is never nil; on failure it is
// empty and err wraps ErrDataUnavailable.
// A cancelled ctx stops the wait, not the load.
func (d *Dataset) Get(ctx context.Context) (*models.Table, error) {
	d.mu.RLock()
	if d.loaded {
		defer d.mu.RUnlock()
		return d.table, d.err
	}
	d.mu.RUnlock()

	ch := d.group.DoChan(d.path, func() (interface{}, error) {
		d.mu.RLock()
		if d.loaded {
			res := loadResult{d.table, d.err}
			d.mu.RUnlock()
			return res, nil
		}
		d.mu.RUnlock()

		table, err := d.load(d.path, d.schema, d.logger)
		if table == nil {
			table = models.EmptyTable()
		}
		if err != nil {
			d.logger.Error("dataset load failed", "path", d.path, "error", err)
		}

		d.mu.Lock()
		d.table, d.err, d.loaded = table, err, true
		d.mu.Unlock()
		return loadResult{table, err}, nil
	})

	select {
	case <-ctx.Done():
		return models.EmptyTable(), ctx.Err()
	case res := <-ch:
		r := res.Val.(loadResult)
		return r.table, r.err
	}
}

// Warm triggers the load in the caller's goroutine.
func (d *Dataset) Warm(ctx context.Context) {
	table, err := d.Get(ctx)
	if err != nil {
		return
	}
	d.logger.Info("dataset ready", "path", d.path, "rows", table.Len())
}
