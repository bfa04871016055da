package history

import (
	"context"

	"github.com/assetops/ragline/internal/repository/history"
)

// Repository persists message embeddings.
type Repository interface {
	Save(ctx context.Context, msg history.Message) error
	List(ctx context.Context) ([]history.Message, error)
}
