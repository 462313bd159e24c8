package shift

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Shift) error
	GetByID(ctx context.Context, id uuid.UUID) (*Shift, error)
	Update(ctx context.Context, s *Shift) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q *ListShiftsQuery) (*PagedShifts, error)

	// HasOverlap reports whether the staff member has a non-cancelled shift
	// intersecting [start, end). Used by both manual and automatic assignment.
	HasOverlap(ctx context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error)

	// ListByDepartmentBetween returns non-deleted shifts of a department starting in [from, to).
	ListByDepartmentBetween(ctx context.Context, departmentID uuid.UUID, from, to time.Time) ([]*Shift, error)
}
