package ledger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Ledger is the durable record of identifiers that did not yield a record.
// Entries are appended and synced one per line as failures happen, so a
// crash after N confirmed failures loses none of them.
type Ledger struct {
	mu    sync.Mutex
	file  *os.File
	path  string
	count int
}

// Open creates (or truncates) the ledger file for a fresh run. Each run owns
// a full replacement of the ledger; rerun callers must Load a snapshot first.
func Open(path string) (*Ledger, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	return &Ledger{file: file, path: path}, nil
}

// Append records one failed identifier and syncs it to disk.
func (l *Ledger) Append(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := fmt.Fprintf(l.file, "%d\n", id); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync ledger: %w", err)
	}
	l.count++
	return nil
}

// Count returns the number of entries appended this run.
func (l *Ledger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Path returns the ledger file location.
func (l *Ledger) Path() string { return l.path }

// Close closes the underlying file.
func (l *Ledger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// Load reads a ledger snapshot into memory. Blank lines and non-numeric
// lines are skipped; earlier tooling wrote human-readable header lines into
// the same file and old ledgers should still be loadable.
func Load(path string) ([]int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer file.Close()

	var ids []int64
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	return ids, nil
}
