package cleaner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vietcart/catalog-harvester/internal/domain"
	"github.com/vietcart/catalog-harvester/internal/logger"
)

// CleanDir rewrites every batch file under dir with normalized descriptions,
// using a bounded pool of workers. It returns the number of files processed.
// Per-file errors are joined and returned but do not stop the other files.
func CleanDir(ctx context.Context, dir string, workers int) (int, error) {
	if workers <= 0 {
		workers = 1
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read output directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	pathCh := make(chan string)
	go func() {
		defer close(pathCh)
		for _, p := range paths {
			select {
			case <-ctx.Done():
				return
			case pathCh <- p:
			}
		}
	}()

	var (
		mu        sync.Mutex
		errs      []error
		processed int
	)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for path := range pathCh {
				err := CleanFile(path)
				mu.Lock()
				if err != nil {
					errs = append(errs, err)
				} else {
					processed++
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return processed, errors.Join(errs...)
}

// CleanFile normalizes the description field of every record in one batch
// file and rewrites it in place via temp+rename.
func CleanFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read batch file %s: %w", path, err)
	}

	var records []domain.Product
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("decode batch file %s: %w", path, err)
	}

	for i := range records {
		records[i].Description = Normalize(records[i].Description)
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode batch file %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cleaned %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cleaned %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish cleaned %s: %w", path, err)
	}

	logger.InfoObj("batch file cleaned", "clean_meta", map[string]any{
		"file":    path,
		"records": len(records),
	})
	return nil
}
