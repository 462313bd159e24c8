package department

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*Department, error)
	Update(ctx context.Context, d *Department) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q *ListDepartmentsQuery) (*PagedDepartments, error)

	// ListActive returns every active department; used by the shift planner.
	ListActive(ctx context.Context) ([]*Department, error)

	// ExistsByNameOrCode checks uniqueness of name and code, ignoring excludeID.
	ExistsByNameOrCode(ctx context.Context, name, code string, excludeID *uuid.UUID) (bool, error)
}
