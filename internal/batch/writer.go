package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/vietcart/catalog-harvester/internal/domain"
	"github.com/vietcart/catalog-harvester/internal/logger"
)

const (
	filePrefix = "products_"
	fileSuffix = ".json"
)

// Writer accumulates successful records and flushes them as sequentially
// numbered JSON array files. Add and FinalFlush are safe for concurrent use;
// accumulation and flush-triggering share one critical section so a record
// can neither be lost nor written twice.
type Writer struct {
	dir      string
	capacity int

	mu      sync.Mutex
	buf     []domain.Product
	index   int
	written int
}

// NewWriter prepares the output directory and positions the batch index
// after the highest existing file, so rerun rounds append instead of
// overwriting earlier output.
func NewWriter(dir string, capacity int) (*Writer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("batch capacity must be positive, got %d", capacity)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return &Writer{
		dir:      dir,
		capacity: capacity,
		buf:      make([]domain.Product, 0, capacity),
		index:    NextIndex(dir),
	}, nil
}

// Add appends one record, flushing a full batch when capacity is reached.
func (w *Writer) Add(rec domain.Product) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, rec)
	if len(w.buf) < w.capacity {
		return nil
	}
	return w.flushLocked()
}

// FinalFlush writes any partial remainder. A zero-record remainder produces
// no file.
func (w *Writer) FinalFlush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) == 0 {
		return nil
	}
	return w.flushLocked()
}

// BatchesWritten returns the number of files flushed so far.
func (w *Writer) BatchesWritten() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// flushLocked writes the buffer to the next numbered file via temp+rename,
// so a partially written batch is never visible under its final name.
// Callers must hold w.mu.
func (w *Writer) flushLocked() error {
	name := fmt.Sprintf("%s%03d%s", filePrefix, w.index, fileSuffix)
	path := filepath.Join(w.dir, name)

	data, err := json.MarshalIndent(w.buf, "", "  ")
	if err != nil {
		return fmt.Errorf("encode batch %d: %w", w.index, err)
	}

	tmp, err := os.CreateTemp(w.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp batch file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write batch %d: %w", w.index, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close batch %d: %w", w.index, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish batch %d: %w", w.index, err)
	}

	logger.InfoObj("batch flushed", "batch_meta", map[string]any{
		"file":    path,
		"records": len(w.buf),
	})

	w.buf = w.buf[:0]
	w.index++
	w.written++
	return nil
}

// NextIndex scans dir for products_NNN.json files and returns the index
// after the highest one found, starting at 1 for an empty directory.
func NextIndex(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 1
	}

	max := 0
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		numeric := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		idx, err := strconv.Atoi(numeric)
		if err != nil || idx <= 0 {
			continue
		}
		if idx > max {
			max = idx
		}
	}
	return max + 1
}
