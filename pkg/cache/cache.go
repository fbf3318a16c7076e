// Package cache stores encoded frames so identical requests skip rendering.
//
// Frames are a pure function of the configuration, the frame counter and the
// output settings, so a key derived from those ([FrameKey]) identifies the
// encoded bytes exactly. [Memory] is a bounded LRU with a time-to-live;
// [NullCache] disables caching.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache stores encoded artifacts by key.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key, replacing any previous entry.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the cache's resources.
	Close() error
}

// Default limits of [NewMemory].
const (
	DefaultEntries = 512
	DefaultTTL     = 10 * time.Minute
)

// Memory is an in-process LRU cache whose entries expire after a fixed TTL.
// It is safe for concurrent use.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory creates a cache holding at most entries items for ttl each.
// Non-positive arguments select DefaultEntries and DefaultTTL.
func NewMemory(entries int, ttl time.Duration) *Memory {
	if entries <= 0 {
		entries = DefaultEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{lru: expirable.NewLRU[string, []byte](entries, nil, ttl)}
}

// Get retrieves a value from the cache.
func (c *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok := c.lru.Get(key)
	return data, ok, nil
}

// Set stores a value in the cache, evicting the least recently used entry
// when full.
func (c *Memory) Set(ctx context.Context, key string, data []byte) error {
	c.lru.Add(key, data)
	return nil
}

// Delete removes a value from the cache.
func (c *Memory) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len returns the number of live entries.
func (c *Memory) Len() int {
	return c.lru.Len()
}

// Close drops every entry.
func (c *Memory) Close() error {
	c.lru.Purge()
	return nil
}

// Ensure Memory implements Cache.
var _ Cache = (*Memory)(nil)
