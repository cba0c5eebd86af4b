// Package cache memoizes analysis results in a bbolt file so that repeated
// runs over unchanged history skip the detector.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/scadenziario/internal/common"
	"github.com/Veraticus/scadenziario/internal/model"
	"github.com/Veraticus/scadenziario/internal/recurrence"
	"go.etcd.io/bbolt"
)

var analysesBucket = []byte("analyses")

type entry struct {
	StoredAt time.Time         `json:"stored_at"`
	Result   recurrence.Result `json:"result"`
}

// Cache is a bbolt backed store of analysis results keyed by input digest.
type Cache struct {
	db  *bbolt.DB
	now func() time.Time
	ttl time.Duration
}

// Open opens or creates the cache file at path. Entries older than ttl are
// treated as misses; a zero ttl keeps entries forever. When another process
// holds the file lock, opening is retried a few times before giving up.
func Open(ctx context.Context, path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	var db *bbolt.DB
	err := common.WithRetry(ctx, func() error {
		var openErr error
		db, openErr = bbolt.Open(path, 0600, &bbolt.Options{Timeout: 500 * time.Millisecond})
		if errors.Is(openErr, bbolt.ErrTimeout) {
			return &common.RetryableError{Err: openErr, Retryable: true}
		}
		return openErr
	}, common.RetryOptions{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCacheUnavailable, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(analysesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Close releases the cache file.
func (c *Cache) Close() error {
	return c.db.Close()
}

type keyInput struct {
	Fingerprint  string              `json:"fingerprint"`
	Company      string              `json:"company"`
	Transactions []model.Transaction `json:"transactions"`
	Deadlines    []model.Deadline    `json:"deadlines"`
}

// Key digests everything that influences an analysis: the detector
// fingerprint, the company and both input slices.
func Key(fingerprint, company string, transactions []model.Transaction, deadlines []model.Deadline) (string, error) {
	data, err := json.Marshal(keyInput{
		Fingerprint:  fingerprint,
		Company:      company,
		Transactions: transactions,
		Deadlines:    deadlines,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Get returns the result stored under key. Expired entries are misses.
func (c *Cache) Get(key string) (recurrence.Result, bool, error) {
	var (
		e     entry
		found bool
	)

	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(analysesBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &e)
	})
	if err != nil {
		return recurrence.Result{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if !found || c.expired(e.StoredAt) {
		return recurrence.Result{}, false, nil
	}
	return e.Result, true, nil
}

// Put stores result under key.
func (c *Cache) Put(key string, result recurrence.Result) error {
	data, err := json.Marshal(entry{StoredAt: c.now().UTC(), Result: result})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(analysesBucket).Put([]byte(key), data)
	})
}

// Purge deletes expired and unreadable entries and returns how many were removed.
func (c *Cache) Purge() (int, error) {
	removed := 0

	err := c.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(analysesBucket)

		var stale [][]byte
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var e entry
			if err := json.Unmarshal(v, &e); err != nil || c.expired(e.StoredAt) {
				stale = append(stale, append([]byte(nil), k...))
			}
		}

		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
			removed++
		}
		return nil
	})

	return removed, err
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() (int, error) {
	n := 0
	err := c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(analysesBucket).Stats().KeyN
		return nil
	})
	return n, err
}

func (c *Cache) expired(storedAt time.Time) bool {
	return c.ttl > 0 && c.now().Sub(storedAt) > c.ttl
}
