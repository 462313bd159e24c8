package postgres

import (
	"context"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/appointment"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	return conn(ctx, r.db).Create(a).Error
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	if err := conn(ctx, r.db).Scopes(notDeleted).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err, appointment.ErrAppointmentNotFound, nil)
	}
	return &a, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *appointment.Appointment) error {
	return saveRow(conn(ctx, r.db), a, appointment.ErrAppointmentNotFound)
}

// UpdateStatus writes only the lifecycle columns so a concurrent reschedule
// is not clobbered.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	res := conn(ctx, r.db).Model(&appointment.Appointment{}).Scopes(notDeleted).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"status":               a.Status,
			"cancelled_at":         a.CancelledAt,
			"cancellation_reason":  a.CancellationReason,
			"cancelled_by":         a.CancelledBy,
			"completed_at":         a.CompletedAt,
			"actual_duration_mins": a.ActualDurationMins,
			"updated_at":           time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	db := conn(ctx, r.db).Model(&appointment.Appointment{}).Scopes(notDeleted)
	if q.PatientID != nil {
		db = db.Where("patient_id = ?", *q.PatientID)
	}
	if q.DoctorID != nil {
		db = db.Where("doctor_id = ?", *q.DoctorID)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.Type != nil {
		db = db.Where("type = ?", *q.Type)
	}
	if q.DateFrom != nil {
		db = db.Where("scheduled_at >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		db = db.Where("scheduled_at < ?", *q.DateTo)
	}
	return listPage[appointment.Appointment](db, q.PageRequest, "scheduled_at ASC")
}

// HasConflict compares [start, end) against every open appointment of the
// doctor. Cancelled and no-show slots are free again.
func (r *AppointmentRepository) HasConflict(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	db := conn(ctx, r.db).Model(&appointment.Appointment{}).Scopes(notDeleted).
		Where("doctor_id = ?", doctorID).
		Where("status NOT IN ?", []appointment.AppointmentStatus{appointment.StatusCancelled, appointment.StatusNoShow}).
		Where("scheduled_at < ?", end).
		Where("scheduled_at + (duration_mins * interval '1 minute') > ?", start)
	if excludeID != nil {
		db = db.Where("id <> ?", *excludeID)
	}
	var n int64
	if err := db.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *AppointmentRepository) GetUpcoming(ctx context.Context, withinHours int) ([]*appointment.Appointment, error) {
	now := time.Now()
	var out []*appointment.Appointment
	err := conn(ctx, r.db).Scopes(notDeleted).
		Where("status IN ?", []appointment.AppointmentStatus{appointment.StatusScheduled, appointment.StatusConfirmed}).
		Where("scheduled_at BETWEEN ? AND ?", now, now.Add(time.Duration(withinHours)*time.Hour)).
		Order("scheduled_at ASC").
		Find(&out).Error
	return out, err
}
