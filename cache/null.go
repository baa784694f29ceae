package cache

import (
	"context"
	"time"
)

// NullCache disables result caching: every lookup misses and writes are
// dropped. runner.New falls back to it when no cache is configured.
type NullCache struct{}

var _ Cache = NullCache{}

// NewNullCache returns a Cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

// Get reports a miss for every key.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete is a no-op.
func (NullCache) Delete(context.Context, string) error { return nil }

// Close is a no-op; a NullCache stays usable after Close.
func (NullCache) Close() error { return nil }
