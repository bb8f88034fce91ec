// Package ledger is the device's durable key-value store. It keeps entries
// in memory for the voting code and flushes them to a compressed file.
package ledger

import (
	"maps"
	"strings"
	"sync"
	"topfived/internal/voting"

	json "github.com/goccy/go-json"
)

type KVStore struct {
	mu    sync.RWMutex
	data  map[string]string
	dirty bool
}

func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]string)}
}

func (s *KVStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *KVStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.dirty = true
	return nil
}

// Snapshot copies all entries and clears the dirty flag.
func (s *KVStore) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
	return maps.Clone(s.data)
}

// MarkDirty flags the store for the next flush, e.g. after a failed write.
func (s *KVStore) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = true
}

func (s *KVStore) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Put replaces the whole store with restored entries.
func (s *KVStore) Put(entries map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string, len(entries))
	maps.Copy(s.data, entries)
	s.dirty = false
}

func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// IdentityCount totals the anonymous voter ids held under every identity
// history key.
func (s *KVStore) IdentityCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for key, raw := range s.data {
		if !strings.HasPrefix(key, voting.AnonymousIDsKey) {
			continue
		}
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err == nil {
			total += len(ids)
		}
	}
	return total
}
