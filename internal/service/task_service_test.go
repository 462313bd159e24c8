package service

import (
	"context"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type taskFixture struct {
	svc      *TaskService
	tasks    *fakeTaskRepo
	staff    *fakeStaffRepo
	notifier *recordingNotifier
	dept     *department.Department
	nurse    *staff.Member
	other    *staff.Member
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	dept := &department.Department{ID: uuid.New(), Name: "Oncology", Code: "ONC", IsActive: true}
	mk := func(role domain.Role) *staff.Member {
		userID := uuid.New()
		return &staff.Member{ID: uuid.New(), FirstName: "S", LastName: string(role), Role: role, DepartmentID: &dept.ID, Status: staff.StatusActive, UserID: &userID}
	}
	f := &taskFixture{
		tasks:    newFakeTaskRepo(),
		notifier: &recordingNotifier{},
		dept:     dept,
		nurse:    mk(domain.RoleNurse),
		other:    mk(domain.RoleNurse),
	}
	f.staff = newFakeStaffRepo(f.nurse, f.other)
	auditSvc, _ := testAudit(t)
	f.svc = NewTaskService(f.tasks, f.staff, newFakeDeptRepo(dept), newFakePatientRepo(), f.notifier, auditSvc, testMetrics(), zap.NewNop())
	return f
}

func (f *taskFixture) create(t *testing.T) *task.Task {
	t.Helper()
	tk, err := f.svc.CreateTask(context.Background(), staffCaller(domain.RoleDoctor, uuid.New()), &task.CreateTaskCommand{
		Title:      " Check vitals in bay 4 ",
		AssigneeID: f.nurse.ID,
	})
	require.NoError(t, err)
	return tk
}

func TestCreateTask_Defaults(t *testing.T) {
	f := newTaskFixture(t)
	tk := f.create(t)

	assert.Equal(t, "Check vitals in bay 4", tk.Title)
	assert.Equal(t, task.PriorityMedium, tk.Priority)
	assert.Equal(t, task.StatusPending, tk.Status)
	require.NotNil(t, tk.DepartmentID)
	assert.Equal(t, f.dept.ID, *tk.DepartmentID, "department defaults to the assignee's")

	require.Equal(t, 1, f.notifier.count())
	assert.Equal(t, *f.nurse.UserID, f.notifier.sent[0].RecipientID)
	assert.Equal(t, notification.TypeTask, f.notifier.sent[0].Type)
}

func TestCreateTask_Validation(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTask(ctx, adminCaller(), &task.CreateTaskCommand{Priority: "whenever"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Fields, 3)

	_, err = f.svc.CreateTask(ctx, adminCaller(), &task.CreateTaskCommand{Title: "x", AssigneeID: uuid.New()})
	assert.ErrorIs(t, err, staff.ErrStaffNotFound)

	unknownDept := uuid.New()
	_, err = f.svc.CreateTask(ctx, adminCaller(), &task.CreateTaskCommand{Title: "x", AssigneeID: f.nurse.ID, DepartmentID: &unknownDept})
	assert.ErrorIs(t, err, department.ErrDepartmentNotFound)

	unknownPatient := uuid.New()
	_, err = f.svc.CreateTask(ctx, adminCaller(), &task.CreateTaskCommand{Title: "x", AssigneeID: f.nurse.ID, PatientID: &unknownPatient})
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)
}

func TestUpdateTaskStatus(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	tk := f.create(t)

	_, err := f.svc.UpdateStatus(ctx, staffCaller(domain.RoleNurse, f.other.ID), tk.ID, task.StatusInProgress)
	assert.ErrorIs(t, err, ErrForbidden, "other nurses cannot move the task")

	_, err = f.svc.UpdateStatus(ctx, staffCaller(domain.RoleNurse, f.nurse.ID), tk.ID, "paused")
	assert.ErrorIs(t, err, task.ErrInvalidStatus)

	tk, err = f.svc.UpdateStatus(ctx, staffCaller(domain.RoleNurse, f.nurse.ID), tk.ID, task.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, tk.Status)

	_, err = f.svc.UpdateStatus(ctx, staffCaller(domain.RoleNurse, f.nurse.ID), tk.ID, task.StatusPending)
	assert.ErrorIs(t, err, task.ErrInvalidStatusTransition)

	tk, err = f.svc.UpdateStatus(ctx, staffCaller(domain.RoleDoctor, uuid.New()), tk.ID, task.StatusCompleted)
	require.NoError(t, err)
	assert.NotNil(t, tk.CompletedAt)

	_, err = f.svc.UpdateStatus(ctx, adminCaller(), tk.ID, task.StatusCancelled)
	assert.ErrorIs(t, err, task.ErrTaskFinished)

	title := "new"
	_, err = f.svc.UpdateTask(ctx, adminCaller(), tk.ID, &task.UpdateTaskCommand{Title: &title})
	assert.ErrorIs(t, err, task.ErrTaskFinished)
}

func TestUpdateTask_Reassign(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	tk := f.create(t)

	due := time.Date(2030, 1, 2, 8, 0, 0, 0, time.UTC)
	updated, err := f.svc.UpdateTask(ctx, adminCaller(), tk.ID, &task.UpdateTaskCommand{AssigneeID: &f.other.ID, DueAt: &due})
	require.NoError(t, err)
	assert.Equal(t, f.other.ID, updated.AssigneeID)

	require.Equal(t, 2, f.notifier.count())
	last := f.notifier.sent[1]
	assert.Equal(t, *f.other.UserID, last.RecipientID)
	assert.Contains(t, last.Message, "due Wed 02 Jan 08:00 UTC")

	inactive := *f.nurse
	inactive.Status = staff.StatusInactive
	require.NoError(t, f.staff.Update(ctx, &inactive))
	_, err = f.svc.UpdateTask(ctx, adminCaller(), tk.ID, &task.UpdateTaskCommand{AssigneeID: &f.nurse.ID})
	assert.ErrorIs(t, err, staff.ErrStaffInactive)
}

func TestMyTasksAndDelete(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	tk := f.create(t)

	_, err := f.svc.MyTasks(ctx, adminCaller(), &task.ListTasksQuery{})
	assert.ErrorIs(t, err, ErrForbidden)

	page, err := f.svc.MyTasks(ctx, staffCaller(domain.RoleNurse, f.nurse.ID), &task.ListTasksQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = f.svc.MyTasks(ctx, staffCaller(domain.RoleNurse, f.other.ID), &task.ListTasksQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	bad := task.Priority("p0")
	_, err = f.svc.ListTasks(ctx, &task.ListTasksQuery{Priority: &bad})
	assert.ErrorIs(t, err, task.ErrInvalidPriority)

	require.NoError(t, f.svc.DeleteTask(ctx, adminCaller(), tk.ID))
	_, err = f.svc.GetTask(ctx, tk.ID)
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}
