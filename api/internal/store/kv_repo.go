package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// KVRepo is the durable key/value slot used by session.Store.
type KVRepo struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewKVRepo(db *sql.DB, d Dialect) *KVRepo { return &KVRepo{DB: db, Dialect: d} }

func (r *KVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	q := rebind(r.Dialect, `select value from session_kv where slot_key = ?`)
	var v string
	if err := r.DB.QueryRowContext(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

// Set overwrites the value under key.
func (r *KVRepo) Set(ctx context.Context, key, value string) error {
	q := rebind(r.Dialect, `
insert into session_kv (slot_key, value, updated_at) values (?, ?, ?)
on conflict (slot_key) do update
set value = excluded.value, updated_at = excluded.updated_at`)
	_, err := r.DB.ExecContext(ctx, q, key, value, nowMillis())
	return err
}

func (r *KVRepo) Delete(ctx context.Context, key string) error {
	q := rebind(r.Dialect, `delete from session_kv where slot_key = ?`)
	_, err := r.DB.ExecContext(ctx, q, key)
	return err
}

// PurgeOlderThan drops sessions nobody touched for a long time.
func (r *KVRepo) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, errors.New("olderThan must be > 0")
	}
	cutoff := time.Now().Add(-olderThan).UnixMilli()
	q := rebind(r.Dialect, `delete from session_kv where updated_at < ?`)
	res, err := r.DB.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}
