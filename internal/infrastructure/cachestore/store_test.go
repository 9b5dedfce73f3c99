package cachestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"w3batch/internal/domain/entity"
	"w3batch/internal/pkg/logger"
)

func openTestStore(t *testing.T, dir string, ttl time.Duration) *Store {
	t.Helper()
	s, err := Open(dir, "checker", ttl, logger.NewAdapter(zap.NewNop()))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return s
}

func usd(v float64) *float64 { return &v }

func TestPutGetRoundtrip(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 0)

	records := []entity.BalanceRecord{
		{Chain: "bsc", Token: "BNB", Amount: 1.5, UsdValue: usd(900)},
		{Chain: "bsc", Token: "USDT", Amount: 25},
	}
	if err := s.Put("0xAbC123", records); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, found := s.Get("0xabc123")
	if !found {
		t.Fatal("expected cache hit, address lookup should be case-insensitive")
	}
	if len(got) != 2 || got[0].Token != "BNB" || got[1].Amount != 25 {
		t.Errorf("unexpected records: %+v", got)
	}
	if got[0].UsdValue == nil || *got[0].UsdValue != 900 {
		t.Errorf("usd value not preserved: %+v", got[0])
	}

	if _, found := s.Get("0xother"); found {
		t.Error("expected cache miss for unknown wallet")
	}
}

func TestLastUpdatedTracksWrites(t *testing.T) {
	s := openTestStore(t, t.TempDir(), 0)

	if _, ok := s.LastUpdated("0xabc"); ok {
		t.Fatal("LastUpdated should report false before any write")
	}

	before := time.Now().Add(-time.Second)
	if err := s.Put("0xabc", nil); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	when, ok := s.LastUpdated("0xabc")
	if !ok || when.Before(before) {
		t.Errorf("LastUpdated = %v, %v", when, ok)
	}

	storeWhen, ok := s.UpdatedAt()
	if !ok || storeWhen.Before(before) {
		t.Errorf("UpdatedAt = %v, %v", storeWhen, ok)
	}
}

func TestReopenReadsPersistedEntries(t *testing.T) {
	dir := t.TempDir()

	s := openTestStore(t, dir, 0)
	if err := s.Put("0xabc", []entity.BalanceRecord{{Chain: "ethereum", Token: "ETH", Amount: 0.7}}); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	reopened := openTestStore(t, dir, 0)
	got, found := reopened.Get("0xabc")
	if !found {
		t.Fatal("expected persisted entry to survive a reopen")
	}
	if len(got) != 1 || got[0].Amount != 0.7 {
		t.Errorf("unexpected records after reopen: %+v", got)
	}
	if _, ok := reopened.UpdatedAt(); !ok {
		t.Error("UpdatedAt should carry over from the file")
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "checker.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to seed corrupt file: %v", err)
	}

	s := openTestStore(t, dir, 0)
	if _, found := s.Get("0xabc"); found {
		t.Error("corrupt file should yield an empty cache, not an error")
	}
}

func TestTTLDropsStaleEntriesOnLoad(t *testing.T) {
	dir := t.TempDir()

	s := openTestStore(t, dir, 0)
	if err := s.Put("0xstale", []entity.BalanceRecord{{Chain: "bsc", Token: "BNB", Amount: 1}}); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	// Age the entry on disk past the TTL used for the reopen.
	path := filepath.Join(dir, "checker.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read cache file: %v", err)
	}
	var stored fileFormat
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatalf("failed to parse cache file: %v", err)
	}
	for key, entry := range stored.Entries {
		entry.UpdatedAt = time.Now().Add(-2 * time.Hour)
		stored.Entries[key] = entry
	}
	aged, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("failed to marshal aged cache: %v", err)
	}
	if err := os.WriteFile(path, aged, 0o644); err != nil {
		t.Fatalf("failed to write aged cache: %v", err)
	}

	reopened := openTestStore(t, dir, time.Hour)
	if _, found := reopened.Get("0xstale"); found {
		t.Error("entry older than the TTL should not survive the reload")
	}
}

func TestNamespaceSanitized(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "debank/total", 0, logger.NewAdapter(zap.NewNop()))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.Put("0xabc", nil); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "debank_total.json")); err != nil {
		t.Errorf("expected sanitized cache file name: %v", err)
	}
}
