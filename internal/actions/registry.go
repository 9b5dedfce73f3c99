package actions

import (
	"sort"
	"strings"
	"time"

	"w3batch/internal/app/port"
	"w3batch/internal/config"
	"w3batch/internal/domain/entity"
	"w3batch/pkg/metrics"
)

// Deps bundles the collaborators an action builder may bind. Builders pick
// what they need and ignore the rest.
type Deps struct {
	Cfg      *config.Config
	Cache    port.Cache
	Networks port.NetworkResolver
	Clients  port.BlockchainClientProvider
	Debank   port.AccountAggregator
	Prices   port.PriceSource
	Catalog  port.TokenCatalog
	Logger   port.Logger
}

// Builder constructs a ready-to-run action handler from its configuration
// block. Builders validate everything resolvable up front so a bad block
// fails before any wallet is scheduled.
type Builder func(cfg config.ActionConfig, deps Deps) (port.Action, error)

//nolint:gochecknoglobals // Registry of known action types.
var builders = map[string]Builder{
	"onchain-balance": newOnchainBalanceAction,
	"debank-snapshot": newDebankSnapshotAction,
	"debank-total":    newDebankTotalAction,
}

// Build resolves the action tag from the config block and constructs the
// handler. An unknown tag is a ConfigError listing the registered tags.
func Build(cfg config.ActionConfig, deps Deps) (port.Action, error) {
	builder, ok := builders[cfg.Action]
	if !ok {
		return nil, entity.NewConfigError("unknown action type %q for action %q, registered types: %s",
			cfg.Action, cfg.Name, strings.Join(Tags(), ", "))
	}
	return builder(cfg, deps)
}

// Tags returns the registered action-type tags in sorted order.
func Tags() []string {
	tags := make([]string, 0, len(builders))
	for tag := range builders {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// readCached serves a wallet from the persistent cache. A miss is an empty
// record set, not an error: the wallet simply has nothing to report.
func readCached(cache port.Cache, wallet entity.Wallet, log port.Logger) []entity.BalanceRecord {
	records, ok := cache.Get(wallet.Address)
	if !ok {
		metrics.CacheReads.WithLabelValues("miss").Inc()
		log.Debug("No cached records for wallet", "address", wallet.Address)
		return []entity.BalanceRecord{}
	}
	metrics.CacheReads.WithLabelValues("hit").Inc()
	if ts, tsOK := cache.LastUpdated(wallet.Address); tsOK {
		log.Debug("Serving cached records", "address", wallet.Address,
			"records", len(records), "updated_at", ts.Format(time.RFC3339))
	}
	return records
}
