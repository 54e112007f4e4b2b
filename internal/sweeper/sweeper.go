// Package sweeper removes deals whose end date has passed. It is invoked by
// an external scheduler through cmd/sweeper; this package holds no scheduling
// logic and no state between runs.
package sweeper

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/example/dealspot/internal/repository"
)

// Run performs one bulk expiry pass at the given instant and returns the
// number of deals removed. It is idempotent for a fixed instant.
func Run(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	return repository.NewDealRepository(db).ExpireBulk(ctx, now)
}
