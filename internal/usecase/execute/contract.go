package execute

import (
	"context"

	"github.com/assetops/ragline/internal/db"
)

// Querier executes bounded relational queries against the store.
type Querier interface {
	Count(ctx context.Context, q *db.Query) (int64, error)
	Select(ctx context.Context, q *db.Query) ([]map[string]any, error)
}
