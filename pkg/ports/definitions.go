package ports

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/shortlinks/pkg/core/domain"
)

// LinkRepository defines storage operations for links.
// Implementations translate driver errors into domain errors.
type LinkRepository interface {
	// Insert fails with domain.ErrDuplicateCode when the store's unique
	// constraint on code is violated.
	Insert(ctx context.Context, code, url string, createdAt time.Time) (*domain.Link, error)
	FindByCode(ctx context.Context, code string) (*domain.Link, error)
	ListAll(ctx context.Context) ([]domain.Link, error)
	DeleteByCode(ctx context.Context, code string) (string, error)
	// IncrementClicks is a single atomic read-modify-write and returns the new count.
	IncrementClicks(ctx context.Context, code string, at time.Time) (int64, error)
}

// LinkCache holds resolved target URLs keyed by code.
type LinkCache interface {
	Get(ctx context.Context, code string) (string, bool)
	Set(ctx context.Context, code, url string)
	Delete(ctx context.Context, code string)
}

// LinkService defines the business logic operations
type LinkService interface {
	Create(ctx context.Context, url, code string) (*domain.Link, error)
	Get(ctx context.Context, code string) (*domain.Link, error)
	List(ctx context.Context) ([]domain.Link, error)
	Delete(ctx context.Context, code string) error
	// Redirect resolves code and schedules a best-effort click record.
	Redirect(ctx context.Context, code string) (string, error)
}
