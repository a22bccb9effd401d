package engine

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"databrowser/internal/models"
)

func TestDatasetLoadsOnce(t *testing.T) {
	var calls int32
	release := make(chan struct{})

	d := NewDataset("data.csv", testSchema, nil)
	d.load = func(string, models.Schema, *slog.Logger) (*models.Table, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return sampleTable(), nil
	}

	var wg sync.WaitGroup
	results := make([]*models.Table, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			table, err := d.Get(context.Background())
			if err != nil {
				t.Errorf("Get: %v", err)
			}
			results[i] = table
		}(i)
	}

	// Let the callers pile up on the in-flight load
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("Expected 1 load, got %d", n)
	}
	for i, table := range results {
		if table.Len() != 3 {
			t.Errorf("caller %d: expected 3 rows, got %d", i, table.Len())
		}
	}

	// Later calls hit the cached result
	if _, err := d.Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("Expected cached result, load ran %d times", n)
	}
	if !d.Loaded() {
		t.Error("Expected Loaded() after Get")
	}
}

func TestDatasetCachesFailure(t *testing.T) {
	d := NewDataset(filepath.Join(t.TempDir(), "missing.csv"), testSchema, nil)

	for i := 0; i < 2; i++ {
		table, err := d.Get(context.Background())
		if !errors.Is(err, ErrDataUnavailable) {
			t.Fatalf("call %d: expected ErrDataUnavailable, got %v", i, err)
		}
		if table == nil || !table.Empty() {
			t.Fatalf("call %d: expected empty table", i)
		}
	}
}

func TestDatasetGetHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	d := NewDataset("slow.csv", testSchema, nil)
	d.load = func(string, models.Schema, *slog.Logger) (*models.Table, error) {
		<-release
		return sampleTable(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	table, err := d.Get(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
	if !table.Empty() {
		t.Error("Expected empty table on cancelled wait")
	}
	if d.Loaded() {
		t.Error("Load should still be in flight")
	}
}
