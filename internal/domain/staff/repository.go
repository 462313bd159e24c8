package staff

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	Update(ctx context.Context, m *Member) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q *ListStaffQuery) (*PagedStaff, error)

	// ListActiveByDepartment returns active members of a department ordered by name.
	ListActiveByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*Member, error)

	CountActiveByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error)
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
}
