// Package session persists the calculator session and models the
// application state as a value updated by pure reducer functions.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"moyenne-bot/api/internal/catalog"
	"moyenne-bot/api/internal/gpa"
)

// StorageKey is the fixed slot the session is stored under.
const StorageKey = "moyenne_dz_data"

var (
	// ErrNoData: nothing stored, or what is stored cannot be parsed.
	ErrNoData = errors.New("session: no data")
	// ErrStale: stored level/stream no longer exist in the catalog.
	ErrStale = errors.New("session: stale data")
	// ErrInvalid: subjects with a non-positive coefficient or a repeated id.
	ErrInvalid = errors.New("session: invalid subjects")
)

// KV is the durable key/value collaborator.
// Get returns ok=false when the key is absent.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Deleter is implemented by KV backends that can drop a key.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// ChatScope and APIScope keep Telegram chats and HTTP slots in separate
// namespaces so one transport cannot address the other's sessions.
func ChatScope(chatID int64) string { return "tg:" + strconv.FormatInt(chatID, 10) }

func APIScope(slot string) string { return "api:" + strings.TrimSpace(slot) }

// SlotKey scopes the fixed key for multi-user transports (chat id, API slot).
func SlotKey(scope string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return StorageKey
	}
	return StorageKey + ":" + scope
}

type Store struct {
	kv  KV
	key string
}

func NewStore(kv KV, key string) *Store {
	if key == "" {
		key = StorageKey
	}
	return &Store{kv: kv, key: key}
}

func (s *Store) Key() string { return s.key }

// Save overwrites the slot with the JSON form of snap.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	if snap.Subjects == nil {
		snap.Subjects = []catalog.Subject{}
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		return fmt.Errorf("session: write %s: %w", s.key, err)
	}
	return nil
}

// Load reads the slot back. Malformed text and subjects failing Check are
// logged and reported as ErrNoData; ids missing from the catalog are reported as ErrStale.
// Errors from the KV itself are returned wrapped.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return Snapshot{}, fmt.Errorf("session: read %s: %w", s.key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return Snapshot{}, ErrNoData
	}
	snap, err := DecodeSnapshot([]byte(raw))
	if err != nil {
		log.Printf("session: discard malformed data under %s: %v", s.key, err)
		return Snapshot{}, ErrNoData
	}
	if err := snap.Check(); err != nil {
		log.Printf("session: discard invalid data under %s: %v", s.key, err)
		return Snapshot{}, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	if _, _, err := catalog.Resolve(snap.LevelID, snap.StreamID); err != nil {
		log.Printf("session: discard stale data under %s: %v", s.key, err)
		return Snapshot{}, fmt.Errorf("%w: %v", ErrStale, err)
	}
	for i := range snap.Subjects {
		if g := snap.Subjects[i].Grade; g != nil {
			c := gpa.ClampGrade(*g)
			snap.Subjects[i].Grade = &c
		}
	}
	return snap, nil
}

// Clear removes the slot. Backends without Delete yield errors.ErrUnsupported.
func (s *Store) Clear(ctx context.Context) error {
	d, ok := s.kv.(Deleter)
	if !ok {
		return errors.ErrUnsupported
	}
	if err := d.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("session: delete %s: %w", s.key, err)
	}
	return nil
}

// Exists reports whether anything is stored, without validating it.
func (s *Store) Exists(ctx context.Context) bool {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		log.Printf("session: exists %s: %v", s.key, err)
		return false
	}
	return ok && strings.TrimSpace(raw) != ""
}
