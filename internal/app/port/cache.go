package port

import (
	"time"

	"w3batch/internal/domain/entity"
)

// Cache is the wallet-keyed record store consulted by actions. A missing
// entry is reported through ok=false, never as an error: under cache_only an
// absent wallet simply has nothing to report.
type Cache interface {
	Get(address string) (records []entity.BalanceRecord, ok bool)
	Put(address string, records []entity.BalanceRecord) error
	LastUpdated(address string) (time.Time, bool)
}
