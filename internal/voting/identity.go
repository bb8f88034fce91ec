package voting

import (
	"fmt"
	"strings"
	"sync"
	"topfived/internal/providers"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// AnonymousIDsKey is the well-known key under which a device keeps every
// pseudo-identity it has generated.
const AnonymousIDsKey = "topfived.anonymousVoterIds"

// LedgerKey namespaces the identity history of one device.
func LedgerKey(device string) string {
	if device == "" {
		return AnonymousIDsKey
	}
	return AnonymousIDsKey + ":" + device
}

// IdentityLedger is the append-only history of anonymous voter ids kept in
// the device's key-value store. Ids are never removed, even when the vote
// they were cast with is retracted or rolled back.
type IdentityLedger struct {
	mu     sync.Mutex
	kv     KeyValueStore
	key    string
	clock  providers.Clock
	logger providers.Logger
	suffix func() string
}

func NewIdentityLedger(kv KeyValueStore, key string, clock providers.Clock, logger providers.Logger) *IdentityLedger {
	return &IdentityLedger{
		kv:     kv,
		key:    key,
		clock:  clock,
		logger: logger,
		suffix: randomSuffix,
	}
}

func randomSuffix() string {
	id := uuid.NewString()
	return id[:strings.IndexByte(id, '-')]
}

func (l *IdentityLedger) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *IdentityLedger) load() []string {
	raw, ok := l.kv.Get(l.key)
	if !ok || raw == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		l.logger.Warnf(providers.TypeVote, "Unreadable identity history under %s: %s", l.key, err)
		return nil
	}
	return ids
}

// Generate returns a fresh pseudo-identity of the form user<millis>:<suffix>.
// It is not recorded until Append is called.
func (l *IdentityLedger) Generate() string {
	return fmt.Sprintf("user%d:%s", l.clock.Now().UnixMilli(), l.suffix())
}

func (l *IdentityLedger) Append(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ids := append(l.load(), id)
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode identity history: %w", err)
	}
	if err := l.kv.Set(l.key, string(raw)); err != nil {
		return fmt.Errorf("store identity history: %w", err)
	}
	return nil
}

func (l *IdentityLedger) IDs() []string {
	return l.History()
}

func (l *IdentityLedger) NewID() string {
	return l.Generate()
}

func (l *IdentityLedger) Remember(id string) error {
	return l.Append(id)
}
