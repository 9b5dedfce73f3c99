package cachestore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	gocache "github.com/patrickmn/go-cache"

	"w3batch/internal/app/port"
	"w3batch/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const cleanupInterval = 10 * time.Minute

// cacheEntry is one wallet's stored record set with its write time.
type cacheEntry struct {
	Records   []entity.BalanceRecord `json:"records"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// fileFormat is the on-disk layout, one file per action namespace.
type fileFormat struct {
	UpdatedAt time.Time             `json:"updated_at"`
	Entries   map[string]cacheEntry `json:"entries"`
}

// Store persists per-wallet balance records under a namespace. Reads are
// served from memory; every Put rewrites the backing file atomically so a
// later cache-only run sees the data even after a crash mid-batch.
type Store struct {
	mu        sync.Mutex
	path      string
	mem       *gocache.Cache
	logger    port.Logger
	updatedAt time.Time
}

// Open loads or creates the cache file for the given namespace inside dir.
// A ttl of zero keeps entries forever; entries older than a positive ttl
// are dropped on load and expire in memory.
func Open(dir, namespace string, ttl time.Duration, logger port.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, entity.NewConfigError("failed to create cache directory %s: %v", dir, err)
	}

	defaultTTL := gocache.NoExpiration
	if ttl > 0 {
		defaultTTL = ttl
	}

	s := &Store{
		path:   filepath.Join(dir, sanitize(namespace)+".json"),
		mem:    gocache.New(defaultTTL, cleanupInterval),
		logger: logger,
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, entity.NewConfigError("failed to read cache file %s: %v", s.path, err)
		}
		return s, nil
	}

	var stored fileFormat
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Warn("Cache file is corrupt, starting with an empty cache", "path", s.path, "error", err)
		return s, nil
	}

	loaded := 0
	for key, entry := range stored.Entries {
		expiration := gocache.DefaultExpiration
		if ttl > 0 {
			remaining := ttl - time.Since(entry.UpdatedAt)
			if remaining <= 0 {
				continue
			}
			expiration = remaining
		}
		s.mem.Set(strings.ToLower(key), entry, expiration)
		loaded++
	}
	s.updatedAt = stored.UpdatedAt

	logger.Debug("Cache loaded", "path", s.path, "entries", loaded)
	return s, nil
}

// Get returns the stored records for the wallet, if any.
func (s *Store) Get(address string) ([]entity.BalanceRecord, bool) {
	value, found := s.mem.Get(strings.ToLower(address))
	if !found {
		return nil, false
	}
	entry, ok := value.(cacheEntry)
	if !ok {
		return nil, false
	}
	return entry.Records, true
}

// Put stores the wallet's records and persists the whole namespace.
// Concurrent writers touch disjoint wallets, so last-write-wins on the
// file is safe as long as each write snapshots the full in-memory state.
func (s *Store) Put(address string, records []entity.BalanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	s.mem.SetDefault(strings.ToLower(address), cacheEntry{Records: records, UpdatedAt: now})
	s.updatedAt = now
	return s.persistLocked()
}

// LastUpdated reports when the wallet's entry was written.
func (s *Store) LastUpdated(address string) (time.Time, bool) {
	value, found := s.mem.Get(strings.ToLower(address))
	if !found {
		return time.Time{}, false
	}
	entry, ok := value.(cacheEntry)
	if !ok {
		return time.Time{}, false
	}
	return entry.UpdatedAt, true
}

// UpdatedAt reports the newest write in the namespace, loaded or live.
func (s *Store) UpdatedAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt, !s.updatedAt.IsZero()
}

func (s *Store) persistLocked() error {
	stored := fileFormat{
		UpdatedAt: s.updatedAt,
		Entries:   make(map[string]cacheEntry, s.mem.ItemCount()),
	}
	for key, item := range s.mem.Items() {
		if entry, ok := item.Object.(cacheEntry); ok {
			stored.Entries[key] = entry
		}
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func sanitize(namespace string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, namespace)
}
