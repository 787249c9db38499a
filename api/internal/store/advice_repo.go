package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"moyenne-bot/api/internal/advisor"
)

type AdviceRepo struct {
	DB      *sql.DB
	Dialect Dialect
}

func NewAdviceRepo(db *sql.DB, d Dialect) *AdviceRepo { return &AdviceRepo{DB: db, Dialect: d} }

// Find returns cached advice for (requestHash, model).
// If maxAge > 0 and the entry is older, it returns sql.ErrNoRows so the model
// is asked again.
func (r *AdviceRepo) Find(ctx context.Context, requestHash, model string, maxAge time.Duration) (advisor.Advice, error) {
	q := rebind(r.Dialect, `select advice_json, created_at
from advice_cache
where request_hash = ? and model = ?`)
	var (
		js string
		ts int64
	)
	if err := r.DB.QueryRowContext(ctx, q, requestHash, model).Scan(&js, &ts); err != nil {
		return advisor.Advice{}, err
	}
	if maxAge > 0 && time.Since(time.UnixMilli(ts)) > maxAge {
		return advisor.Advice{}, ErrNotFound
	}
	var a advisor.Advice
	if err := json.Unmarshal([]byte(js), &a); err != nil {
		// broken cache entry: treat as missing
		return advisor.Advice{}, ErrNotFound
	}
	return a, nil
}

// Upsert stores advice; PK (request_hash, model).
func (r *AdviceRepo) Upsert(ctx context.Context, requestHash, model string, a advisor.Advice) error {
	js, err := json.Marshal(a)
	if err != nil {
		return err
	}
	q := rebind(r.Dialect, `
insert into advice_cache (request_hash, model, advice_json, created_at)
values (?, ?, ?, ?)
on conflict (request_hash, model)
do update set advice_json = excluded.advice_json, created_at = excluded.created_at`)
	_, err = r.DB.ExecContext(ctx, q, requestHash, model, string(js), nowMillis())
	return err
}

// PurgeOlderThan keeps the cache from growing forever.
func (r *AdviceRepo) PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UnixMilli()
	q := rebind(r.Dialect, `delete from advice_cache where created_at < ?`)
	res, err := r.DB.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	aff, _ := res.RowsAffected()
	return aff, nil
}
