// Package store persists auth service user records. The memory
// implementation backs tests and local development; postgres is the
// production store.
package store

import (
	"context"

	"github.com/google/uuid"

	"questify/internal/auth"
)

// Users is the persistence boundary for account records. Missing rows come
// back as apperrors.NotFound so handlers can pass them straight through.
type Users interface {
	Create(ctx context.Context, user auth.User) error
	Update(ctx context.Context, user auth.User) error
	ByID(ctx context.Context, id uuid.UUID) (auth.User, error)
	ByGmail(ctx context.Context, gmail string) (auth.User, error)
	List(ctx context.Context) ([]auth.User, error)
}
