package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage tracks identifiers that have already been resolved
// successfully, so rerun rounds can skip them.

// Store remembers resolved product identifiers across runs.
type Store interface {
	Close() error
	SeenProduct(id int64) (bool, error)
	MarkProduct(id int64) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ResolvedTTL     time.Duration
	CleanupInterval time.Duration
}

const (
	defaultResolvedTTL     = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ResolvedTTL <= 0 {
		opts.ResolvedTTL = defaultResolvedTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                    { return nil }
func (noopStore) SeenProduct(int64) (bool, error) { return false, nil }
func (noopStore) MarkProduct(int64) error         { return nil }
