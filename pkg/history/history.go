// Package history maintains the ordered ring of previously sent commands,
// persisted as a single versioned blob in an opaque key-value store.
package history

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Store is the key-value persistence the ring writes through. Get reports
// absence with ok=false; malformed values are the ring's problem, not the
// store's.
type Store interface {
	Get(key string) (value string, ok bool)
	Set(key, value string) error
	Remove(key string) error
}

const (
	// DefaultKey is the storage key the command ring persists under.
	DefaultKey = "command_history"
	// DefaultMax is the ring's default length cap.
	DefaultMax = 50

	blobVersion = 1
)

// blob is the persisted envelope: version, ordered entries (index 0 most
// recent), and a last-updated timestamp in epoch milliseconds.
type blob struct {
	Version   int      `json:"version"`
	Entries   []string `json:"entries"`
	UpdatedAt int64    `json:"updated_at"`
}

// Ring is the dedupe-and-cap command list, index 0 = most recent. Every
// mutation funnels through load, modify, save, so persisted and returned
// state match after every call; no in-memory copy is kept between calls.
type Ring struct {
	store Store
	key   string
	max   int
}

// NewRing creates a ring over store with the given length cap; max <= 0
// selects DefaultMax.
func NewRing(store Store, max int) *Ring {
	if max <= 0 {
		max = DefaultMax
	}
	return &Ring{store: store, key: DefaultKey, max: max}
}

// Max returns the ring's length cap.
func (r *Ring) Max() int { return r.max }

// Load returns the persisted entries. Absent, malformed, or structurally
// wrong storage loads as an empty sequence; Load never fails.
func (r *Ring) Load() []string {
	raw, ok := r.store.Get(r.key)
	if !ok {
		return []string{}
	}
	var b blob
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		log.Debug().Err(err).Msg("discarding malformed history blob")
		return []string{}
	}
	if b.Entries == nil {
		return []string{}
	}
	return b.Entries
}

// Save persists entries verbatim under the current version with a fresh
// timestamp, replacing any prior blob.
func (r *Ring) Save(entries []string) error {
	b := blob{
		Version:   blobVersion,
		Entries:   entries,
		UpdatedAt: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := r.store.Set(r.key, string(data)); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}

// Clear removes all persisted history.
func (r *Ring) Clear() error {
	if err := r.store.Remove(r.key); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// PushFront records a sent command. The command is trimmed; empty results
// are a no-op, as is re-sending the current head. Otherwise every prior
// occurrence is removed, the command is inserted at index 0, the sequence
// is capped (oldest entries dropped), and the result is persisted and
// returned.
func (r *Ring) PushFront(cmd string) ([]string, error) {
	entries := r.Load()

	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return entries, nil
	}
	if len(entries) > 0 && entries[0] == cmd {
		return entries, nil
	}

	next := make([]string, 0, len(entries)+1)
	next = append(next, cmd)
	for _, e := range entries {
		if e != cmd {
			next = append(next, e)
		}
	}
	if len(next) > r.max {
		next = next[:r.max]
	}

	if err := r.Save(next); err != nil {
		return next, err
	}
	return next, nil
}

// DeleteAt removes the entry at index (0 = most recent) and persists the
// result. An out-of-bounds index returns the sequence unchanged without a
// write.
func (r *Ring) DeleteAt(index int) ([]string, error) {
	entries := r.Load()
	if index < 0 || index >= len(entries) {
		return entries, nil
	}

	next := make([]string, 0, len(entries)-1)
	next = append(next, entries[:index]...)
	next = append(next, entries[index+1:]...)

	if err := r.Save(next); err != nil {
		return next, err
	}
	return next, nil
}
