package store

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"moyenne-bot/api/internal/advisor"
	"moyenne-bot/api/internal/session"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, SQLite, ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// idempotent
	if err := Migrate(ctx, db); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	return db
}

func TestKVRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewKVRepo(openTestDB(t), SQLite)

	if _, ok, err := repo.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := repo.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := repo.Get(ctx, "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("get = %q %v %v", v, ok, err)
	}
	if err := repo.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := repo.Get(ctx, "k"); ok {
		t.Fatal("key survived delete")
	}
}

func TestKVRepoPurge(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewKVRepo(db, SQLite)
	_ = repo.Set(ctx, "fresh", "1")
	if _, err := db.ExecContext(ctx, `insert into session_kv (slot_key, value, updated_at) values (?, ?, ?)`,
		"old", "1", time.Now().Add(-48*time.Hour).UnixMilli()); err != nil {
		t.Fatal(err)
	}

	n, err := repo.PurgeOlderThan(ctx, 24*time.Hour)
	if err != nil || n != 1 {
		t.Fatalf("purged %d, err %v", n, err)
	}
	if _, ok, _ := repo.Get(ctx, "fresh"); !ok {
		t.Fatal("fresh row purged")
	}
	if _, err := repo.PurgeOlderThan(ctx, 0); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestSessionStoreOverSQLite(t *testing.T) {
	ctx := context.Background()
	st := session.NewStore(NewKVRepo(openTestDB(t), SQLite), session.SlotKey("123"))

	if _, err := st.Load(ctx); !errors.Is(err, session.ErrNoData) {
		t.Fatalf("empty store err = %v", err)
	}

	s := session.Reduce(session.New("fr"), session.SelectLevel{LevelID: "lyc_1"})
	s = session.Reduce(s, session.SelectStream{StreamID: "tc_st"})
	s = session.Reduce(s, session.SetGrade{SubjectID: "math", Raw: "17.25"})
	s = session.Reduce(s, session.SetTarget{Raw: "16"})
	snap := s.Snapshot(time.Unix(1760000000, 0))

	if err := st.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !st.Exists(ctx) {
		t.Fatal("exists = false after save")
	}
	got, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, snap) {
		t.Fatalf("round trip mismatch\nwant %+v\n got %+v", snap, got)
	}
}

func TestAdviceRepo(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewAdviceRepo(db, SQLite)

	if _, err := repo.Find(ctx, "h", "gemini/x", 0); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("miss err = %v", err)
	}
	in := advisor.Advice{Analysis: "a", Tips: []string{"t1", "t2"}, Encouragement: "e"}
	if err := repo.Upsert(ctx, "h", "gemini/x", in); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	out, err := repo.Find(ctx, "h", "gemini/x", time.Hour)
	if err != nil || !reflect.DeepEqual(in, out) {
		t.Fatalf("find = %+v, %v", out, err)
	}

	if _, err := db.ExecContext(ctx, `update advice_cache set created_at = ?`, time.Now().Add(-2*time.Hour).UnixMilli()); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Find(ctx, "h", "gemini/x", time.Hour); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired entry err = %v", err)
	}
	if _, err := repo.Find(ctx, "h", "gemini/x", 0); err != nil {
		t.Fatalf("maxAge 0 should ignore age: %v", err)
	}

	if _, err := db.ExecContext(ctx, `update advice_cache set advice_json = 'nope'`); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Find(ctx, "h", "gemini/x", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("broken entry err = %v", err)
	}

	n, err := repo.PurgeOlderThan(ctx, time.Hour)
	if err != nil || n != 1 {
		t.Fatalf("purge = %d, %v", n, err)
	}
}

func TestRebind(t *testing.T) {
	q := `insert into t (a, b) values (?, ?)`
	if got := rebind(Postgres, q); got != `insert into t (a, b) values ($1, $2)` {
		t.Fatalf("postgres: %s", got)
	}
	if got := rebind(SQLite, q); got != q {
		t.Fatalf("sqlite: %s", got)
	}
}

func TestParseDialect(t *testing.T) {
	for in, want := range map[string]Dialect{"postgres": Postgres, "PGX": Postgres, "sqlite3": SQLite} {
		if got, err := ParseDialect(in); err != nil || got != want {
			t.Errorf("ParseDialect(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseDialect("mysql"); err == nil {
		t.Error("mysql accepted")
	}
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()
	_ = kv.Set(ctx, "a", "1")
	if v, ok, _ := kv.Get(ctx, "a"); !ok || v != "1" {
		t.Fatal("memory kv lost value")
	}
}
