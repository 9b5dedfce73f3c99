package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"w3batch/internal/config"
	"w3batch/internal/domain/entity"
)

type stubWallets struct {
	wallets []entity.Wallet
	err     error
}

func (s stubWallets) GetWallets() ([]entity.Wallet, error) { return s.wallets, s.err }

type stubAction struct {
	name  string
	total bool
	run   func(ctx context.Context, w entity.Wallet) ([]entity.BalanceRecord, error)
}

func (s *stubAction) Name() string { return s.name }
func (s *stubAction) Total() bool  { return s.total }

func (s *stubAction) Run(ctx context.Context, w entity.Wallet) ([]entity.BalanceRecord, error) {
	return s.run(ctx, w)
}

type warmAction struct {
	*stubAction
	warmups int32
}

func (w *warmAction) Warmup(context.Context) error {
	atomic.AddInt32(&w.warmups, 1)
	return nil
}

func testWallets(n int) []entity.Wallet {
	wallets := make([]entity.Wallet, n)
	for i := range wallets {
		wallets[i] = entity.Wallet{Address: fmt.Sprintf("0x%040x", i+1)}
	}
	return wallets
}

func newTestService(wallets []entity.Wallet) *BatchService {
	return NewBatchService(stubWallets{wallets: wallets}, zap.NewNop())
}

// trackingRun returns a handler func that records the peak number of
// concurrent invocations.
func trackingRun(peak *int64) func(context.Context, entity.Wallet) ([]entity.BalanceRecord, error) {
	var current int64
	return func(context.Context, entity.Wallet) ([]entity.BalanceRecord, error) {
		cur := atomic.AddInt64(&current, 1)
		for {
			prev := atomic.LoadInt64(peak)
			if cur <= prev || atomic.CompareAndSwapInt64(peak, prev, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&current, -1)
		return []entity.BalanceRecord{{Chain: "eth", Token: "ETH", Amount: 1}}, nil
	}
}

func TestRunJobsBoundsConcurrency(t *testing.T) {
	wallets := testWallets(20)
	svc := newTestService(wallets)

	var peak int64
	handler := &stubAction{name: "test", run: trackingRun(&peak)}
	cfg := config.ActionConfig{Name: "balances", Threads: 3}

	results := svc.runJobs(context.Background(), cfg, handler, wallets)

	if got := atomic.LoadInt64(&peak); got > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", got)
	}
	if len(results) != len(wallets) {
		t.Fatalf("got %d results, want %d", len(results), len(wallets))
	}
	for i, res := range results {
		if res.Wallet.Address != wallets[i].Address {
			t.Fatalf("result %d is for %s, want input order %s", i, res.Wallet.Address, wallets[i].Address)
		}
		if res.State != entity.JobCompleted {
			t.Errorf("result %d state = %v, want completed", i, res.State)
		}
	}
}

func TestRunJobsCacheOnlyForcesSingleWorker(t *testing.T) {
	wallets := testWallets(10)
	svc := newTestService(wallets)

	var peak int64
	handler := &stubAction{name: "test", run: trackingRun(&peak)}
	cfg := config.ActionConfig{Name: "balances", Threads: 8, CacheOnly: true}

	svc.runJobs(context.Background(), cfg, handler, wallets)

	if got := atomic.LoadInt64(&peak); got != 1 {
		t.Errorf("cache_only peak concurrency = %d, want 1", got)
	}
}

func TestRunJobsIsolatesFailures(t *testing.T) {
	wallets := testWallets(5)
	svc := newTestService(wallets)
	badAddress := wallets[2].Address

	handler := &stubAction{name: "test", run: func(_ context.Context, w entity.Wallet) ([]entity.BalanceRecord, error) {
		if w.Address == badAddress {
			return nil, errors.New("rpc unreachable")
		}
		return []entity.BalanceRecord{{Chain: "eth", Token: "ETH", Amount: 2}}, nil
	}}

	results := svc.runJobs(context.Background(), config.ActionConfig{Name: "b", Threads: 4}, handler, wallets)

	for i, res := range results {
		if i == 2 {
			if res.State != entity.JobFailed {
				t.Fatalf("wallet 2 state = %v, want failed", res.State)
			}
			var fetchErr *entity.FetchError
			if !errors.As(res.Err, &fetchErr) {
				t.Fatalf("wallet 2 error type = %T, want *entity.FetchError", res.Err)
			}
			if fetchErr.Address != badAddress {
				t.Errorf("fetch error address = %s, want %s", fetchErr.Address, badAddress)
			}
			continue
		}
		if res.State != entity.JobCompleted {
			t.Errorf("wallet %d state = %v, want completed", i, res.State)
		}
		if len(res.Records) != 1 {
			t.Errorf("wallet %d records = %d, want 1", i, len(res.Records))
		}
	}
}

func TestRunJobsPanicIsContained(t *testing.T) {
	wallets := testWallets(3)
	svc := newTestService(wallets)

	handler := &stubAction{name: "test", run: func(_ context.Context, w entity.Wallet) ([]entity.BalanceRecord, error) {
		if w.Address == wallets[1].Address {
			panic("boom")
		}
		return nil, nil
	}}

	results := svc.runJobs(context.Background(), config.ActionConfig{Name: "b", Threads: 2}, handler, wallets)

	if results[1].State != entity.JobFailed {
		t.Fatalf("panicked wallet state = %v, want failed", results[1].State)
	}
	if results[1].Err == nil || !strings.Contains(results[1].Err.Error(), "handler panic") {
		t.Errorf("panicked wallet error = %v, want handler panic wrap", results[1].Err)
	}
	if results[0].State != entity.JobCompleted || results[2].State != entity.JobCompleted {
		t.Error("sibling jobs should complete despite the panic")
	}
}

func TestRunJobsStopsAdmissionAfterCancel(t *testing.T) {
	wallets := testWallets(3)
	svc := newTestService(wallets)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs int32
	handler := &stubAction{name: "test", run: func(ctx context.Context, w entity.Wallet) ([]entity.BalanceRecord, error) {
		atomic.AddInt32(&runs, 1)
		if w.Address == wallets[0].Address {
			cancel()
			return []entity.BalanceRecord{{Chain: "eth", Token: "ETH", Amount: 1}}, nil
		}
		return nil, ctx.Err()
	}}

	results := svc.runJobs(ctx, config.ActionConfig{Name: "b", Threads: 1}, handler, wallets)

	if results[0].State != entity.JobCompleted {
		t.Fatalf("first wallet state = %v, want completed", results[0].State)
	}
	// With one worker the cancel lands before wallet 3's admission check,
	// so its job never runs and carries the bare context error.
	if got := atomic.LoadInt32(&runs); got > 2 {
		t.Errorf("handler ran %d times, want at most 2", got)
	}
	if results[2].State != entity.JobFailed {
		t.Fatalf("never-admitted wallet state = %v, want failed", results[2].State)
	}
	if !errors.Is(results[2].Err, context.Canceled) {
		t.Errorf("never-admitted wallet error = %v, want context.Canceled", results[2].Err)
	}
	if results[1].State != entity.JobFailed {
		t.Errorf("wallet 2 state = %v, want failed after cancel", results[1].State)
	}
}

func TestRunProducesReportInFileOrder(t *testing.T) {
	wallets := testWallets(3)
	svc := newTestService(wallets)

	handler := &warmAction{stubAction: &stubAction{
		name: "onchain-balance",
		run: func(_ context.Context, w entity.Wallet) ([]entity.BalanceRecord, error) {
			return []entity.BalanceRecord{{Chain: "eth", Token: "ETH", Amount: 1}}, nil
		},
	}}

	report, err := svc.Run(context.Background(), config.ActionConfig{Name: "balances", Threads: 2}, handler)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if atomic.LoadInt32(&handler.warmups) != 1 {
		t.Errorf("warmups = %d, want 1", handler.warmups)
	}
	if report.Total {
		t.Error("report should be per-wallet")
	}
	if len(report.Sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(report.Sections))
	}
	for i, section := range report.Sections {
		if section.Wallet.Address != wallets[i].Address {
			t.Errorf("section %d wallet = %s, want file order %s", i, section.Wallet.Address, wallets[i].Address)
		}
	}
	if report.StartedAt.IsZero() {
		t.Error("StartedAt not set")
	}
	if report.Wallets != 3 {
		t.Errorf("report wallets = %d, want 3", report.Wallets)
	}
}

func TestRunHandlerTotalForcesTotals(t *testing.T) {
	wallets := testWallets(2)
	svc := newTestService(wallets)

	handler := &stubAction{
		name:  "debank-total",
		total: true,
		run: func(_ context.Context, w entity.Wallet) ([]entity.BalanceRecord, error) {
			return []entity.BalanceRecord{{Chain: "eth", Token: "ETH", Amount: 1}}, nil
		},
	}

	report, err := svc.Run(context.Background(), config.ActionConfig{Name: "totals", Threads: 2}, handler)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !report.Total {
		t.Fatal("handler total hint should force totals mode")
	}
	if len(report.Totals) != 1 {
		t.Fatalf("totals rows = %d, want 1", len(report.Totals))
	}
	if report.Totals[0].Amount != 2 || report.Totals[0].Wallets != 2 {
		t.Errorf("totals row = %+v, want summed amount 2 across 2 wallets", report.Totals[0])
	}
}

func TestRunWalletLoadFailureAborts(t *testing.T) {
	svc := NewBatchService(stubWallets{err: entity.NewConfigError("wallet file missing")}, zap.NewNop())

	handler := &stubAction{name: "b", run: func(context.Context, entity.Wallet) ([]entity.BalanceRecord, error) {
		t.Error("handler must not run when wallet loading fails")
		return nil, nil
	}}

	_, err := svc.Run(context.Background(), config.ActionConfig{Name: "b"}, handler)
	var cfgErr *entity.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want ConfigError", err)
	}
}
