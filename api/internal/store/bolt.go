package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var (
	bucketSessions = []byte("Sessions")
	bucketTouched  = []byte("SessionsTouched") // slot key -> unix millis, big endian
)

// BoltKV keeps sessions in a single bbolt file (STORAGE_DRIVER=bolt).
type BoltKV struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) the file at path.
func OpenBolt(path string) (*BoltKV, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt.Open: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketSessions, bucketTouched} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltKV{db: db}, nil
}

func (k *BoltKV) Close() error { return k.db.Close() }

func (k *BoltKV) Get(_ context.Context, key string) (string, bool, error) {
	var (
		v  string
		ok bool
	)
	err := k.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketSessions).Get([]byte(key))
		if raw != nil {
			v, ok = string(raw), true
		}
		return nil
	})
	return v, ok, err
}

func (k *BoltKV) Set(_ context.Context, key, value string) error {
	return k.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSessions).Put([]byte(key), []byte(value)); err != nil {
			return err
		}
		return tx.Bucket(bucketTouched).Put([]byte(key), millis(nowMillis()))
	})
}

func (k *BoltKV) Delete(_ context.Context, key string) error {
	return k.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketSessions).Delete([]byte(key)); err != nil {
			return err
		}
		return tx.Bucket(bucketTouched).Delete([]byte(key))
	})
}

// PurgeOlderThan drops sessions not written for olderThan.
func (k *BoltKV) PurgeOlderThan(_ context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	cutoff := time.Now().Add(-olderThan).UnixMilli()
	var n int64
	err := k.db.Update(func(tx *bbolt.Tx) error {
		touched := tx.Bucket(bucketTouched)
		var stale [][]byte
		err := touched.ForEach(func(key, v []byte) error {
			if len(v) == 8 && int64(binary.BigEndian.Uint64(v)) < cutoff {
				stale = append(stale, append([]byte(nil), key...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		sessions := tx.Bucket(bucketSessions)
		for _, key := range stale {
			if err := sessions.Delete(key); err != nil {
				return err
			}
			if err := touched.Delete(key); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}

// touch rewrites the modification time of key; used by tests.
func (k *BoltKV) touch(key string, at time.Time) error {
	return k.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTouched).Put([]byte(key), millis(at.UnixMilli()))
	})
}

func millis(ms int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(ms))
	return b
}
