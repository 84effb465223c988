// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schemacache caches parsed schemas by the SHA-256 digest of their
// serialized bytes, so that byte-identical schemas are parsed and indexed
// once.
package schemacache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/protobridge/protobridge/internal/errors"
	"github.com/protobridge/protobridge/reflect/schema"
)

// DefaultMaxEntries is the capacity used when Options.MaxEntries is zero.
const DefaultMaxEntries = 128

// Options configures a Cache.
type Options struct {
	// MaxEntries bounds the number of resident schemas.
	MaxEntries int
	// Logger receives debug events. Nil disables logging.
	Logger *zap.Logger
}

type digest [sha256.Size]byte

type entry struct {
	key  digest
	desc *schema.Descriptor
}

// Cache maps schema digests to parsed descriptors. It is safe for concurrent
// use.
type Cache struct {
	lru   *ristretto.Cache
	group singleflight.Group
	log   *zap.Logger

	mu       sync.Mutex
	resident map[uint64]struct{}
}

// New returns an empty Cache.
func New(opts Options) (*Cache, error) {
	if opts.MaxEntries < 0 {
		return nil, errors.New("invalid cache size %d", opts.MaxEntries)
	}
	if opts.MaxEntries == 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	c := &Cache{
		log:      opts.Logger.Named("schemacache"),
		resident: make(map[uint64]struct{}),
	}
	counters := int64(opts.MaxEntries) * 10
	if counters < 100 {
		counters = 100
	}
	lru, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        counters,
		MaxCost:            int64(opts.MaxEntries),
		BufferItems:        64,
		KeyToHash:          keyToHash,
		OnEvict:            c.onEvict,
		OnReject:           c.onReject,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.New("cannot create schema cache: %v", err)
	}
	c.lru = lru
	return c, nil
}

func keyToHash(key interface{}) (uint64, uint64) {
	d := key.(digest)
	return binary.LittleEndian.Uint64(d[0:8]), binary.LittleEndian.Uint64(d[8:16])
}

func (c *Cache) onEvict(item *ristretto.Item) {
	c.mu.Lock()
	delete(c.resident, item.Key)
	c.mu.Unlock()
	c.log.Debug("schema evicted", zap.Uint64("key", item.Key))
}

func (c *Cache) onReject(item *ristretto.Item) {
	c.log.Debug("schema not admitted", zap.Uint64("key", item.Key))
}

// GetOrAdd returns the descriptor for schemaBytes, parsing it on a miss.
// Concurrent misses for the same bytes share a single parse.
func (c *Cache) GetOrAdd(schemaBytes []byte) (*schema.Descriptor, error) {
	key := digest(sha256.Sum256(schemaBytes))
	if d := c.get(key); d != nil {
		c.log.Debug("schema cache hit", zap.String("digest", shortHex(key)))
		return d, nil
	}

	v, err, shared := c.group.Do(string(key[:]), func() (interface{}, error) {
		if d := c.get(key); d != nil {
			return d, nil
		}
		d, err := schema.Parse(schemaBytes)
		if err != nil {
			return nil, err
		}
		c.add(key, d)
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	c.log.Debug("schema cache miss",
		zap.String("digest", shortHex(key)),
		zap.Bool("shared", shared))
	return v.(*schema.Descriptor), nil
}

func (c *Cache) get(key digest) *schema.Descriptor {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil
	}
	e := v.(*entry)
	if e.key != key {
		return nil // 128-bit hash collision
	}
	return e.desc
}

func (c *Cache) add(key digest, d *schema.Descriptor) {
	c.lru.Set(key, &entry{key: key, desc: d}, 1)
	c.lru.Wait()
	if c.get(key) == nil {
		return // dropped or rejected by the admission policy
	}
	h, _ := keyToHash(key)
	c.mu.Lock()
	c.resident[h] = struct{}{}
	c.mu.Unlock()
}

// Len returns the number of resident schemas.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.resident)
}

// Close stops the cache's background goroutines. The cache must not be used
// afterwards.
func (c *Cache) Close() {
	c.lru.Close()
}

func shortHex(d digest) string {
	return hex.EncodeToString(d[:6])
}
