package service

import (
	"context"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/shift"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/staff"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type shiftFixture struct {
	svc      *ShiftService
	shifts   *fakeShiftRepo
	staff    *fakeStaffRepo
	depts    *fakeDeptRepo
	notifier *recordingNotifier
	audit    *fakeAuditRepo
	dept     *department.Department
	nurse    *staff.Member
}

func newShiftFixture(t *testing.T) *shiftFixture {
	t.Helper()
	dept := &department.Department{ID: uuid.New(), Name: "Emergency", Code: "ER", IsActive: true}
	userID := uuid.New()
	nurse := &staff.Member{
		ID:           uuid.New(),
		FirstName:    "Ana",
		LastName:     "Lopez",
		Email:        "ana@carehub.test",
		Role:         domain.RoleNurse,
		DepartmentID: &dept.ID,
		Status:       staff.StatusActive,
		UserID:       &userID,
	}

	f := &shiftFixture{
		shifts:   newFakeShiftRepo(),
		staff:    newFakeStaffRepo(nurse),
		depts:    newFakeDeptRepo(dept),
		notifier: &recordingNotifier{},
		dept:     dept,
		nurse:    nurse,
	}
	var auditSvc *AuditService
	auditSvc, f.audit = testAudit(t)
	f.svc = NewShiftService(f.shifts, f.staff, f.depts, f.notifier, auditSvc, testMetrics(), zap.NewNop())
	return f
}

func (f *shiftFixture) assign(start time.Time, hours int) *shift.AssignShiftCommand {
	return &shift.AssignShiftCommand{
		StaffID:      f.nurse.ID,
		DepartmentID: f.dept.ID,
		StartTime:    start,
		EndTime:      start.Add(time.Duration(hours) * time.Hour),
	}
}

var baseDay = time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC)

func TestAssignShift_Success(t *testing.T) {
	f := newShiftFixture(t)
	admin := adminCaller()

	sh, err := f.svc.AssignShift(context.Background(), admin, f.assign(baseDay.Add(7*time.Hour), 8))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, sh.ID)
	assert.Equal(t, shift.TypeMorning, sh.Type)
	assert.Equal(t, shift.StatusScheduled, sh.Status)
	assert.Equal(t, shift.SourceManual, sh.Source)
	assert.Equal(t, admin.UserID, sh.CreatedBy)

	stored, err := f.shifts.GetByID(context.Background(), sh.ID)
	require.NoError(t, err)
	assert.Equal(t, sh.StartTime, stored.StartTime)

	require.Equal(t, 1, f.notifier.count())
	assert.Equal(t, *f.nurse.UserID, f.notifier.sent[0].RecipientID)
	assert.Equal(t, notification.TypeShift, f.notifier.sent[0].Type)
}

func TestAssignShift_DerivesTypeFromStart(t *testing.T) {
	tests := []struct {
		hour int
		want shift.Type
	}{
		{7, shift.TypeMorning},
		{15, shift.TypeEvening},
		{23, shift.TypeNight},
		{2, shift.TypeNight},
	}
	for _, tt := range tests {
		f := newShiftFixture(t)
		sh, err := f.svc.AssignShift(context.Background(), adminCaller(), f.assign(baseDay.Add(time.Duration(tt.hour)*time.Hour), 8))
		require.NoError(t, err)
		assert.Equal(t, tt.want, sh.Type, "hour %d", tt.hour)
	}
}

func TestAssignShift_RejectsOverlap(t *testing.T) {
	f := newShiftFixture(t)
	ctx := context.Background()

	_, err := f.svc.AssignShift(ctx, adminCaller(), f.assign(baseDay.Add(7*time.Hour), 8))
	require.NoError(t, err)

	_, err = f.svc.AssignShift(ctx, adminCaller(), f.assign(baseDay.Add(12*time.Hour), 8))
	assert.ErrorIs(t, err, shift.ErrShiftOverlap)

	// Touching intervals do not overlap.
	_, err = f.svc.AssignShift(ctx, adminCaller(), f.assign(baseDay.Add(15*time.Hour), 8))
	assert.NoError(t, err)
}

func TestAssignShift_CancelledShiftFreesSlot(t *testing.T) {
	f := newShiftFixture(t)
	ctx := context.Background()

	first, err := f.svc.AssignShift(ctx, adminCaller(), f.assign(baseDay.Add(7*time.Hour), 8))
	require.NoError(t, err)
	_, err = f.svc.CancelShift(ctx, adminCaller(), first.ID)
	require.NoError(t, err)

	_, err = f.svc.AssignShift(ctx, adminCaller(), f.assign(baseDay.Add(7*time.Hour), 8))
	assert.NoError(t, err)
}

func TestAssignShift_Validation(t *testing.T) {
	f := newShiftFixture(t)
	ctx := context.Background()

	_, err := f.svc.AssignShift(ctx, adminCaller(), f.assign(baseDay.Add(7*time.Hour), 0))
	assert.ErrorIs(t, err, shift.ErrInvalidInterval)

	_, err = f.svc.AssignShift(ctx, adminCaller(), f.assign(baseDay, 25))
	assert.ErrorIs(t, err, shift.ErrShiftTooLong)

	cmd := f.assign(baseDay.Add(7*time.Hour), 8)
	cmd.Type = "afternoon"
	_, err = f.svc.AssignShift(ctx, adminCaller(), cmd)
	assert.ErrorIs(t, err, shift.ErrInvalidShiftType)
}

func TestAssignShift_StaffAndDepartmentChecks(t *testing.T) {
	f := newShiftFixture(t)
	ctx := context.Background()

	other := &department.Department{ID: uuid.New(), Name: "ICU", Code: "ICU", IsActive: true}
	require.NoError(t, f.depts.Create(ctx, other))
	cmd := f.assign(baseDay.Add(7*time.Hour), 8)
	cmd.DepartmentID = other.ID
	_, err := f.svc.AssignShift(ctx, adminCaller(), cmd)
	assert.ErrorIs(t, err, shift.ErrStaffNotInDepartment)

	closed := &department.Department{ID: uuid.New(), Name: "Closed", Code: "CL", IsActive: false}
	require.NoError(t, f.depts.Create(ctx, closed))
	cmd.DepartmentID = closed.ID
	_, err = f.svc.AssignShift(ctx, adminCaller(), cmd)
	assert.ErrorIs(t, err, department.ErrDepartmentInactive)

	cmd = f.assign(baseDay.Add(7*time.Hour), 8)
	cmd.StaffID = uuid.New()
	_, err = f.svc.AssignShift(ctx, adminCaller(), cmd)
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)

	onLeave := *f.nurse
	onLeave.Status = staff.StatusOnLeave
	require.NoError(t, f.staff.Update(ctx, &onLeave))
	_, err = f.svc.AssignShift(ctx, adminCaller(), f.assign(baseDay.Add(7*time.Hour), 8))
	assert.ErrorIs(t, err, staff.ErrStaffInactive)
}

func TestAssignShift_NotificationFailureDoesNotFail(t *testing.T) {
	f := newShiftFixture(t)
	f.notifier.err = errBoom

	_, err := f.svc.AssignShift(context.Background(), adminCaller(), f.assign(baseDay.Add(7*time.Hour), 8))
	assert.NoError(t, err)
}

func TestUpdateShift_ExcludesItselfFromOverlap(t *testing.T) {
	f := newShiftFixture(t)
	ctx := context.Background()

	sh, err := f.svc.AssignShift(ctx, adminCaller(), f.assign(baseDay.Add(7*time.Hour), 8))
	require.NoError(t, err)

	end := baseDay.Add(16 * time.Hour)
	updated, err := f.svc.UpdateShift(ctx, adminCaller(), sh.ID, &shift.UpdateShiftCommand{EndTime: &end})
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour, updated.Duration())

	_, err = f.svc.AssignShift(ctx, adminCaller(), f.assign(baseDay.Add(20*time.Hour), 8))
	require.NoError(t, err)

	end = baseDay.Add(21 * time.Hour)
	_, err = f.svc.UpdateShift(ctx, adminCaller(), sh.ID, &shift.UpdateShiftCommand{EndTime: &end})
	assert.ErrorIs(t, err, shift.ErrShiftOverlap)
}

func TestUpdateShift_OnlyScheduled(t *testing.T) {
	f := newShiftFixture(t)
	ctx := context.Background()

	sh, err := f.svc.AssignShift(ctx, adminCaller(), f.assign(baseDay.Add(7*time.Hour), 8))
	require.NoError(t, err)
	_, err = f.svc.CompleteShift(ctx, adminCaller(), sh.ID)
	require.NoError(t, err)

	notes := "late"
	_, err = f.svc.UpdateShift(ctx, adminCaller(), sh.ID, &shift.UpdateShiftCommand{Notes: &notes})
	assert.ErrorIs(t, err, shift.ErrInvalidStatusTransition)

	_, err = f.svc.CancelShift(ctx, adminCaller(), sh.ID)
	assert.ErrorIs(t, err, shift.ErrInvalidStatusTransition)
}

func TestDeleteShift(t *testing.T) {
	f := newShiftFixture(t)
	ctx := context.Background()

	sh, err := f.svc.AssignShift(ctx, adminCaller(), f.assign(baseDay.Add(7*time.Hour), 8))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteShift(ctx, adminCaller(), sh.ID))
	_, err = f.svc.GetShift(ctx, sh.ID)
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)
	assert.ErrorIs(t, f.svc.DeleteShift(ctx, adminCaller(), sh.ID), shift.ErrShiftNotFound)
}

func TestListShifts_Validation(t *testing.T) {
	f := newShiftFixture(t)
	ctx := context.Background()

	bad := shift.Status("pending")
	_, err := f.svc.ListShifts(ctx, &shift.ListShiftsQuery{Status: &bad})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	from, to := baseDay, baseDay
	_, err = f.svc.ListShifts(ctx, &shift.ListShiftsQuery{From: &from, To: &to})
	assert.ErrorAs(t, err, &ve)

	page, err := f.svc.ListShifts(ctx, &shift.ListShiftsQuery{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPageSize, page.PageSize)
}

func TestMyShifts(t *testing.T) {
	f := newShiftFixture(t)
	ctx := context.Background()

	_, err := f.svc.AssignShift(ctx, adminCaller(), f.assign(baseDay.Add(7*time.Hour), 8))
	require.NoError(t, err)

	_, err = f.svc.MyShifts(ctx, patientCaller(uuid.New()), &shift.ListShiftsQuery{})
	assert.ErrorIs(t, err, ErrForbidden)

	page, err := f.svc.MyShifts(ctx, staffCaller(domain.RoleNurse, f.nurse.ID), &shift.ListShiftsQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = f.svc.MyShifts(ctx, staffCaller(domain.RoleNurse, uuid.New()), &shift.ListShiftsQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
