package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"moyenne-bot/api/internal/catalog"
)

// Snapshot is the persisted in-progress session.
type Snapshot struct {
	LevelID   string            `json:"levelId"`
	StreamID  string            `json:"streamId"`
	Subjects  []catalog.Subject `json:"subjects"`
	TargetAvg string            `json:"targetAvg"`
	Timestamp int64             `json:"timestamp"` // unix millis
}

// Check enforces positive coefficients and unique subject ids.
func (s Snapshot) Check() error {
	seen := make(map[string]bool, len(s.Subjects))
	for _, sub := range s.Subjects {
		if sub.Coefficient <= 0 {
			return fmt.Errorf("%w: subject %q has coefficient %v", ErrInvalid, sub.ID, sub.Coefficient)
		}
		if seen[sub.ID] {
			return fmt.Errorf("%w: duplicate subject %q", ErrInvalid, sub.ID)
		}
		seen[sub.ID] = true
	}
	return nil
}

// snapshotWire tolerates a numeric targetAvg and missing fields.
type snapshotWire struct {
	LevelID   string            `json:"levelId"`
	StreamID  string            `json:"streamId"`
	Subjects  []catalog.Subject `json:"subjects"`
	TargetAvg json.RawMessage   `json:"targetAvg"`
	Timestamp int64             `json:"timestamp"`
}

// DecodeSnapshot parses the stored form; subjects default to an empty list.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var w snapshotWire
	if err := json.Unmarshal(data, &w); err != nil {
		return Snapshot{}, err
	}
	s := Snapshot{
		LevelID:   w.LevelID,
		StreamID:  w.StreamID,
		Subjects:  w.Subjects,
		TargetAvg: targetText(w.TargetAvg),
		Timestamp: w.Timestamp,
	}
	if s.Subjects == nil {
		s.Subjects = []catalog.Subject{}
	}
	return s, nil
}

func targetText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}
