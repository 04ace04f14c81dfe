// Package offline caches GET responses so previously visited pages and
// assets keep working without connectivity. Static assets are served
// cache-first with network fallback; dynamic paths go network-first with
// cache fallback; auth, checkout, and payment paths bypass caching entirely.
package offline

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	bolt "go.etcd.io/bbolt"
)

var ErrCacheMiss = errors.New("offline: cache miss")

// Entry is one cached response.
type Entry struct {
	Status  int         `json:"status"`
	Header  http.Header `json:"header"`
	Body    []byte      `json:"body"`
	Expires time.Time   `json:"expires"`
}

func (e *Entry) expired() bool {
	return time.Now().After(e.Expires)
}

// Cache stores entries keyed by URL. Get only returns fresh entries;
// GetStale also returns expired ones, for the network-first fallback path.
type Cache interface {
	Get(key string) (*Entry, error)
	GetStale(key string) (*Entry, error)
	Put(key string, entry *Entry) error
}

const cacheBucketPrefix = "httpcache:"

// BoltCache keeps entries in a version-named bucket of the state file, so a
// release rollover can drop every entry written by a prior version.
type BoltCache struct {
	db      *bolt.DB
	version string
	baseTTL time.Duration
}

func NewBoltCache(db *bolt.DB, version string) (*BoltCache, error) {
	c := &BoltCache{
		db:      db,
		version: version,
		baseTTL: 15 * time.Minute,
	}
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(c.bucketName())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create cache bucket: %w", err)
	}
	return c, nil
}

func (c *BoltCache) bucketName() []byte {
	return []byte(cacheBucketPrefix + c.version)
}

// Activate deletes cache buckets written by any other version.
func (c *BoltCache) Activate() error {
	current := string(c.bucketName())
	return c.db.Update(func(tx *bolt.Tx) error {
		var stale [][]byte
		err := tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			n := string(name)
			if len(n) > len(cacheBucketPrefix) && n[:len(cacheBucketPrefix)] == cacheBucketPrefix && n != current {
				stale = append(stale, append([]byte(nil), name...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, name := range stale {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *BoltCache) Get(key string) (*Entry, error) {
	entry, err := c.read(key)
	if err != nil {
		return nil, err
	}
	if entry.expired() {
		return nil, ErrCacheMiss
	}
	return entry, nil
}

func (c *BoltCache) GetStale(key string) (*Entry, error) {
	return c.read(key)
}

func (c *BoltCache) read(key string) (*Entry, error) {
	var data []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(c.bucketName()).Get([]byte(key))
		if v == nil {
			return ErrCacheMiss
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal cache entry: %w", err)
	}
	return &entry, nil
}

func (c *BoltCache) Put(key string, entry *Entry) error {
	if entry.Expires.IsZero() {
		jitter := time.Duration(rand.Intn(300)) * time.Second
		entry.Expires = time.Now().Add(c.baseTTL + jitter)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(c.bucketName()).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}
