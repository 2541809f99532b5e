// Cinegraph - Movie Recommendation and Discovery Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/metrics"
)

// Cache is an in-memory TTL cache for serialized values, backed by an
// in-memory BadgerDB so entry expiry and memory pressure are handled by
// the store instead of hand-rolled eviction logic.
//
// Safe for concurrent use.
type Cache struct {
	db        *badger.DB
	ttl       time.Duration
	cacheType string
	log       zerolog.Logger
}

// New opens an in-memory cache. cacheType labels the cache's hit/miss
// metrics. A non-positive ttl keeps entries until process exit.
//
// Badger stores expiry as whole Unix seconds, so a sub-second ttl would
// truncate to "already expired". Such TTLs are clamped to one second.
func New(cacheType string, ttl time.Duration) (*Cache, error) {
	if ttl > 0 && ttl < time.Second {
		ttl = time.Second
	}

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory cache: %w", err)
	}

	return &Cache{
		db:        db,
		ttl:       ttl,
		cacheType: cacheType,
		log:       logging.WithComponent("cache"),
	}, nil
}

// Get returns the value stored under key. Expired entries report a miss.
func (c *Cache) Get(key string) ([]byte, bool) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		metrics.RecordCacheMiss(c.cacheType)
		return nil, false
	}

	metrics.RecordCacheHit(c.cacheType)
	return value, true
}

// Set stores value under key with the cache TTL.
func (c *Cache) Set(key string, value []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("set cache entry: %w", err)
	}
	return nil
}

// Delete removes an entry. Deleting a missing key is not an error.
func (c *Cache) Delete(key string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	metrics.RecordCacheEviction(c.cacheType)
	return nil
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.db.Close()
}
