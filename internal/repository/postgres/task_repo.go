package postgres

import (
	"context"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/task"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	return conn(ctx, r.db).Create(t).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var t task.Task
	if err := conn(ctx, r.db).Scopes(notDeleted).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err, task.ErrTaskNotFound, nil)
	}
	return &t, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	return saveRow(conn(ctx, r.db), t, task.ErrTaskNotFound)
}

func (r *TaskRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return softDelete(conn(ctx, r.db), &task.Task{}, id, task.ErrTaskNotFound)
}

// List orders by urgency first, then by due date with undated tasks last.
func (r *TaskRepository) List(ctx context.Context, q *task.ListTasksQuery) (*task.PagedTasks, error) {
	db := conn(ctx, r.db).Model(&task.Task{}).Scopes(notDeleted)
	if q.AssigneeID != nil {
		db = db.Where("assignee_id = ?", *q.AssigneeID)
	}
	if q.DepartmentID != nil {
		db = db.Where("department_id = ?", *q.DepartmentID)
	}
	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.Priority != nil {
		db = db.Where("priority = ?", *q.Priority)
	}
	if q.OverdueOnly {
		db = db.Where("due_at < ? AND status IN ?", time.Now(), []task.Status{task.StatusPending, task.StatusInProgress})
	}
	order := "CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END, due_at ASC NULLS LAST, created_at DESC"
	return listPage[task.Task](db, q.PageRequest, order)
}
