package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/vietcart/catalog-harvester/internal/domain"
)

func record(id int64) domain.Product {
	return domain.Product{ID: id, Name: fmt.Sprintf("product-%d", id)}
}

func readBatch(t *testing.T, path string) []domain.Product {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var records []domain.Product
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return records
}

func TestWriterFlushesAtCapacity(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewWriter(dir, 2)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	for _, id := range []int64{1, 2, 3} {
		if err := writer.Add(record(id)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	first := readBatch(t, filepath.Join(dir, "products_001.json"))
	if len(first) != 2 {
		t.Fatalf("first batch has %d records", len(first))
	}
	if _, err := os.Stat(filepath.Join(dir, "products_002.json")); !os.IsNotExist(err) {
		t.Fatalf("partial batch should not be flushed yet")
	}

	if err := writer.FinalFlush(); err != nil {
		t.Fatalf("FinalFlush: %v", err)
	}
	second := readBatch(t, filepath.Join(dir, "products_002.json"))
	if len(second) != 1 || second[0].ID != 3 {
		t.Fatalf("unexpected final batch %#v", second)
	}
	if writer.BatchesWritten() != 2 {
		t.Fatalf("BatchesWritten = %d", writer.BatchesWritten())
	}
}

func TestWriterSkipsEmptyFinalFlush(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewWriter(dir, 2)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if err := writer.FinalFlush(); err != nil {
		t.Fatalf("FinalFlush: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files, found %d", len(entries))
	}
}

func TestWriterContinuesAfterExistingBatches(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"products_001.json", "products_007.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644); err != nil {
			t.Fatalf("seed file: %v", err)
		}
	}

	if got := NextIndex(dir); got != 8 {
		t.Fatalf("NextIndex = %d", got)
	}

	writer, err := NewWriter(dir, 1)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := writer.Add(record(99)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "products_008.json")); err != nil {
		t.Fatalf("expected products_008.json: %v", err)
	}
}

func TestWriterLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewWriter(dir, 1)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := writer.Add(record(1)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestWriterConcurrentAddsLoseNothing(t *testing.T) {
	dir := t.TempDir()
	writer, err := NewWriter(dir, 10)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	const total = 95
	var wg sync.WaitGroup
	wg.Add(total)
	for i := 1; i <= total; i++ {
		go func(id int64) {
			defer wg.Done()
			if err := writer.Add(record(id)); err != nil {
				t.Errorf("Add %d: %v", id, err)
			}
		}(int64(i))
	}
	wg.Wait()
	if err := writer.FinalFlush(); err != nil {
		t.Fatalf("FinalFlush: %v", err)
	}

	seen := make(map[int64]bool)
	entries, _ := os.ReadDir(dir)
	fullBatches := 0
	for _, entry := range entries {
		records := readBatch(t, filepath.Join(dir, entry.Name()))
		if len(records) == 10 {
			fullBatches++
		} else if len(records) != total%10 {
			t.Fatalf("batch %s has %d records", entry.Name(), len(records))
		}
		for _, rec := range records {
			if seen[rec.ID] {
				t.Fatalf("id %d written twice", rec.ID)
			}
			seen[rec.ID] = true
		}
	}
	if len(seen) != total {
		t.Fatalf("wrote %d unique ids, want %d", len(seen), total)
	}
	if fullBatches != total/10 {
		t.Fatalf("full batches = %d, want %d", fullBatches, total/10)
	}
}
