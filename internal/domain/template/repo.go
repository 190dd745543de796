package template

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no live (non-deleted) template matches.
var ErrNotFound = errors.New("template not found")

// ErrCodeTaken is returned when creating a template whose code already
// exists in the tenant schema.
var ErrCodeTaken = errors.New("template code already in use")

type Repository interface {
	Create(ctx context.Context, t *Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*Template, error)
	GetByCode(ctx context.Context, code string) (*Template, error)
	Update(ctx context.Context, t *Template) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*Template, int, error)
}
