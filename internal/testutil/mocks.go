package testutil

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
	"topfived/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu                  sync.Mutex
	VoteOutcomes        map[string]int
	RemoteCalls         int
	PersistenceObserved int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceObserved++
}
func (m *MockMetrics) IncVoteOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.VoteOutcomes == nil {
		m.VoteOutcomes = make(map[string]int)
	}
	m.VoteOutcomes[outcome]++
}
func (m *MockMetrics) ObserveRemoteDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoteCalls++
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockCompressor implements ledger compression with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	return slices.Clone(val), nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	return slices.Clone(val), nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockClock returns a fixed time that tests can advance.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockKVStore is an in-memory device key-value store.
type MockKVStore struct {
	mu     sync.Mutex
	Data   map[string]string
	SetErr error
}

func NewMockKVStore() *MockKVStore {
	return &MockKVStore{Data: make(map[string]string)}
}

func (m *MockKVStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.Data[key]
	return v, ok
}

func (m *MockKVStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Data[key] = value
	return nil
}

var ErrRemote = errors.New("remote store unavailable")

// MockVoteSetStore records vote set updates. Fail makes every call return
// ErrRemote; Block makes calls wait until their context ends or Release is
// closed.
type MockVoteSetStore struct {
	mu      sync.Mutex
	Sets    map[string][]string
	Calls   []string
	Fail    bool
	Block   bool
	Release chan struct{}
}

func NewMockVoteSetStore() *MockVoteSetStore {
	return &MockVoteSetStore{Sets: make(map[string][]string), Release: make(chan struct{})}
}

func (m *MockVoteSetStore) UpdateVoteSet(ctx context.Context, candidateID string, votes []string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, candidateID)
	fail, block := m.Fail, m.Block
	m.mu.Unlock()

	if block {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.Release:
		}
	}
	if fail {
		return ErrRemote
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets[candidateID] = slices.Clone(votes)
	return nil
}

func (m *MockVoteSetStore) SetFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fail = fail
}

func (m *MockVoteSetStore) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
