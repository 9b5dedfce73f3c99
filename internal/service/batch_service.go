package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"w3batch/internal/aggregate"
	"w3batch/internal/app/port"
	"w3batch/internal/config"
	"w3batch/internal/domain/entity"
	"w3batch/pkg/metrics"
)

// BatchService schedules one action invocation per wallet under the
// configured concurrency bound and assembles the report. Job state moves
// Pending -> Running -> Completed or Failed; a failure stays inside its
// job and never aborts the batch.
type BatchService struct {
	logger  *zap.Logger
	wallets port.WalletProvider
}

// NewBatchService creates a new instance of BatchService.
func NewBatchService(wallets port.WalletProvider, logger *zap.Logger) *BatchService {
	return &BatchService{
		logger:  logger.Named("BatchService"),
		wallets: wallets,
	}
}

// Run executes the action over every wallet and aggregates the results.
// Errors returned here happened before any job was admitted (wallet list
// loading); everything after that point is contained in per-job results.
func (s *BatchService) Run(ctx context.Context, actionCfg config.ActionConfig, handler port.Action) (*entity.Report, error) {
	wallets, err := s.wallets.GetWallets()
	if err != nil {
		return nil, err
	}

	if warmer, ok := handler.(port.Warmer); ok {
		if err := warmer.Warmup(ctx); err != nil {
			s.logger.Warn("Handler warmup failed, continuing without it",
				zap.String("action", actionCfg.Name), zap.Error(err))
		}
	}

	started := time.Now()
	results := s.runJobs(ctx, actionCfg, handler, wallets)
	elapsed := time.Since(started)
	metrics.BatchDuration.WithLabelValues(actionCfg.Name).Observe(elapsed.Seconds())

	report := aggregate.Build(actionCfg.Name, results, actionCfg.Rules, actionCfg.Total || handler.Total())
	report.StartedAt = started
	report.Elapsed = elapsed

	s.logger.Info("Batch finished",
		zap.String("action", actionCfg.Name),
		zap.Int("wallets", len(wallets)),
		zap.Int("failed", len(report.Failed)),
		zap.Duration("elapsed", elapsed))
	return report, nil
}

// runJobs admits wallets into a bounded worker window. Each wallet ends up
// with exactly one JobResult at its input position, which keeps per-wallet
// reports in file order no matter the completion order.
func (s *BatchService) runJobs(ctx context.Context, actionCfg config.ActionConfig, handler port.Action, wallets []entity.Wallet) []entity.JobResult {
	bound := actionCfg.Threads
	if actionCfg.CacheOnly {
		// Cache reads are local I/O, one worker keeps the output deterministic.
		bound = 1
	}
	if bound < 1 {
		bound = 1
	}

	s.logger.Info("Starting batch",
		zap.String("action", actionCfg.Name),
		zap.Int("wallets", len(wallets)),
		zap.Int("threads", bound),
		zap.Bool("cache_only", actionCfg.CacheOnly))

	results := make([]entity.JobResult, len(wallets))

	eg, runCtx := errgroup.WithContext(ctx)
	eg.SetLimit(bound)

	for i, wallet := range wallets {
		// Admission gate: once cancelled, stop handing out new jobs and
		// let the admitted ones drain.
		if err := runCtx.Err(); err != nil {
			results[i] = entity.JobResult{Wallet: wallet, State: entity.JobFailed, Err: err}
			metrics.JobsTotal.WithLabelValues("failed").Inc()
			continue
		}

		idx, w := i, wallet // Capture range variables for the goroutine
		eg.Go(func() error {
			results[idx] = s.runOne(runCtx, handler, w)
			return nil
		})
	}

	_ = eg.Wait()
	return results
}

func (s *BatchService) runOne(ctx context.Context, handler port.Action, wallet entity.Wallet) (res entity.JobResult) {
	res = entity.JobResult{Wallet: wallet, State: entity.JobRunning}
	started := time.Now()

	metrics.JobsInFlight.Inc()
	defer metrics.JobsInFlight.Dec()

	defer func() {
		if r := recover(); r != nil {
			res.State = entity.JobFailed
			res.Err = &entity.FetchError{Address: wallet.Address, Err: fmt.Errorf("handler panic: %v", r)}
			res.Elapsed = time.Since(started)
			metrics.JobsTotal.WithLabelValues("failed").Inc()
			s.logger.Error("Job panicked", zap.String("address", wallet.Address), zap.Any("panic", r))
		}
	}()

	records, err := handler.Run(ctx, wallet)
	res.Elapsed = time.Since(started)

	if err != nil {
		res.State = entity.JobFailed
		res.Err = &entity.FetchError{Address: wallet.Address, Err: err}
		metrics.JobsTotal.WithLabelValues("failed").Inc()
		s.logger.Warn("Job failed", zap.String("address", wallet.Address), zap.Error(err))
		return res
	}

	res.State = entity.JobCompleted
	res.Records = records
	metrics.JobsTotal.WithLabelValues("completed").Inc()
	metrics.RecordsFetched.Add(float64(len(records)))
	s.logger.Debug("Job completed",
		zap.String("address", wallet.Address),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", res.Elapsed))
	return res
}
