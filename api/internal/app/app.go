// Package app wires configuration into storage and the advisor; both
// binaries start from here.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"moyenne-bot/api/internal/advisor"
	"moyenne-bot/api/internal/config"
	"moyenne-bot/api/internal/httpserver"
	"moyenne-bot/api/internal/session"
	"moyenne-bot/api/internal/store"
)

// purger is implemented by the repos that can expire old rows.
type purger interface {
	PurgeOlderThan(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Storage is the opened persistence layer. DB is nil for the memory and
// bolt drivers; Advice is nil when there is no SQL database.
type Storage struct {
	DB     *sql.DB
	KV     session.KV
	Advice advisor.Cache

	sessions purger
	advice   purger
	closer   io.Closer
}

// Pinger returns the health probe target, nil when there is no database.
func (s *Storage) Pinger() httpserver.Pinger {
	if s.DB == nil {
		return nil
	}
	return s.DB
}

func (s *Storage) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// OpenStorage opens and migrates the configured driver.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	switch driver {
	case "memory":
		log.Printf("storage: memory (sessions are lost on restart)")
		return &Storage{KV: store.NewMemoryKV()}, nil
	case "bolt", "bbolt":
		kv, err := store.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		log.Printf("storage: bolt %s", cfg.BoltPath)
		return &Storage{KV: kv, sessions: kv, closer: kv}, nil
	}
	d, err := store.ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.SQLitePath
	if d == store.Postgres {
		dsn = ResolveDSN(cfg.DatabaseURL)
	} else if strings.TrimSpace(cfg.DatabaseURL) != "" {
		dsn = cfg.DatabaseURL
	}

	db, err := store.Open(ctx, d, dsn)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if d == store.Postgres {
		log.Printf("db connected: %s", SafeDSNSummary(dsn))
	} else {
		log.Printf("db connected: sqlite %s", dsn)
	}
	kv := store.NewKVRepo(db, d)
	adv := store.NewAdviceRepo(db, d)
	return &Storage{
		DB:       db,
		KV:       kv,
		Advice:   adv,
		sessions: kv,
		advice:   adv,
		closer:   db,
	}, nil
}

// NewAdvisor builds the Gemini engine, cached in the database when there is one.
func NewAdvisor(cfg *config.Config, st *Storage) advisor.Advisor {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		log.Printf("advisor: GEMINI_API_KEY is empty, advice will fall back")
	}
	eng := advisor.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	if st == nil || st.Advice == nil {
		return eng
	}
	return &advisor.Cached{Next: eng, Cache: st.Advice, MaxAge: cfg.AdviceCacheTTL}
}

// RunJanitor purges expired sessions and cached advice every interval until
// ctx is done.
func RunJanitor(ctx context.Context, st *Storage, cfg *config.Config, interval time.Duration) {
	if st.sessions == nil && st.advice == nil {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		purge(ctx, "sessions", st.sessions, cfg.SessionTTL)
		purge(ctx, "advice cache", st.advice, cfg.AdviceCacheTTL)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func purge(ctx context.Context, name string, p purger, ttl time.Duration) {
	if p == nil || ttl <= 0 {
		return
	}
	n, err := p.PurgeOlderThan(ctx, ttl)
	if err != nil {
		log.Printf("janitor: %s: %v", name, err)
		return
	}
	if n > 0 {
		log.Printf("janitor: purged %d from %s", n, name)
	}
}

// ResolveDSN prefers an explicit URL, then builds one from POSTGRES_* / PG*.
func ResolveDSN(databaseURL string) string {
	if v := strings.TrimSpace(databaseURL); v != "" {
		return v
	}
	user := getenvDefault("POSTGRES_USER", "moyenne")
	pass := os.Getenv("POSTGRES_PASSWORD")
	host := getenvDefault("PGHOST", "db")
	port := getenvDefault("PGPORT", "5432")
	db := getenvDefault("POSTGRES_DB", "moyenne")

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, pass),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + db,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func getenvDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

// SafeDSNSummary describes a DSN without its password.
func SafeDSNSummary(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "dsn: parse error"
	}
	user := u.User.Username()
	host := u.Host
	port := ""
	if h, p, err := net.SplitHostPort(u.Host); err == nil {
		host, port = h, p
	}
	db := strings.TrimPrefix(u.Path, "/")
	if port == "" {
		return fmt.Sprintf("host=%s db=%s user=%s", host, db, user)
	}
	return fmt.Sprintf("host=%s port=%s db=%s user=%s", host, port, db, user)
}
