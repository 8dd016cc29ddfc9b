package profile

import (
	"context"

	"github.com/billboard-civic/billboard/internal/domain"
)

// Repository persists profiles.
type Repository interface {
	Get(ctx context.Context, username string) (domain.Profile, error)
	Put(ctx context.Context, p domain.Profile) error
	Delete(ctx context.Context, username string) error
	Exists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]string, error)
}
