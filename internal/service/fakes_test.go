package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/department"
	mr "github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/medical_record"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/shift"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/task"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/events"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var errBoom = errors.New("boom")

func testMetrics() *metrics.Collector {
	return metrics.NewCollector("test", prometheus.NewRegistry())
}

// testAudit returns an audit service backed by an in-memory repository and
// drained when the test ends.
func testAudit(t *testing.T) (*AuditService, *fakeAuditRepo) {
	t.Helper()
	repo := &fakeAuditRepo{}
	svc := newAuditService(repo, testMetrics(), zap.NewNop(), 100)
	t.Cleanup(svc.Shutdown)
	return svc, repo
}

func ptr[T any](v T) *T { return &v }

func staffCaller(role domain.Role, staffID uuid.UUID) domain.Caller {
	return domain.Caller{UserID: uuid.New(), Role: role, StaffID: &staffID, IP: "127.0.0.1", RequestID: "req-1"}
}

func patientCaller(patientID uuid.UUID) domain.Caller {
	return domain.Caller{UserID: uuid.New(), Role: domain.RolePatient, PatientID: &patientID}
}

func adminCaller() domain.Caller {
	return domain.Caller{UserID: uuid.New(), Role: domain.RoleAdmin}
}

func paginateSlice[T any](items []T, req domain.PageRequest) *domain.Page[T] {
	total := int64(len(items))
	start := req.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + req.PageSize
	if end > len(items) {
		end = len(items)
	}
	return domain.NewPage(items[start:end], total, req)
}

// ── tx ─────────────────────────────────────────────────────────────────────

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// ── audit ──────────────────────────────────────────────────────────────────

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
	err     error
}

func (r *fakeAuditRepo) Create(_ context.Context, e *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) snapshot() []*domain.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.AuditLog(nil), r.entries...)
}

// ── notifier / publisher ───────────────────────────────────────────────────

type recordingNotifier struct {
	mu   sync.Mutex
	sent []*notification.SendCommand
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, cmd *notification.SendCommand) (*notification.Notification, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return nil, n.err
	}
	n.sent = append(n.sent, cmd)
	return &notification.Notification{ID: uuid.New(), RecipientID: cmd.RecipientID, Type: cmd.Type}, nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakePublisher struct {
	events []events.Event
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, e events.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

// ── users ──────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]*domain.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.DeletedAt == nil && match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetByStaffID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.StaffID != nil && *u.StaffID == id })
}

func (r *fakeUserRepo) GetByPatientID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.PatientID != nil && *u.PatientID == id })
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) UpdateLoginAttempt(_ context.Context, id uuid.UUID, success bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if success {
		now := time.Now()
		u.FailedLoginCount = 0
		u.LockedUntil = nil
		u.LastLoginAt = &now
		return nil
	}
	if u.LockedUntil != nil && !time.Now().Before(*u.LockedUntil) {
		u.FailedLoginCount = 0
		u.LockedUntil = nil
	}
	u.FailedLoginCount++
	if u.FailedLoginCount >= 5 {
		until := time.Now().Add(15 * time.Minute)
		u.LockedUntil = &until
	}
	return nil
}

func (r *fakeUserRepo) mutate(id uuid.UUID, fn func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(u)
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	return r.mutate(id, func(u *domain.User) { u.PasswordHash = hash; u.PasswordChangedAt = time.Now() })
}

func (r *fakeUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	return r.mutate(id, func(u *domain.User) { u.IsActive = active })
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role domain.Role) error {
	return r.mutate(id, func(u *domain.User) { u.Role = role })
}

// ── patients ───────────────────────────────────────────────────────────────

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*patient.Patient
}

func newFakePatientRepo(ps ...*patient.Patient) *fakePatientRepo {
	r := &fakePatientRepo{patients: map[uuid.UUID]*patient.Patient{}}
	for _, p := range ps {
		r.patients[p.ID] = p
	}
	return r
}

func (r *fakePatientRepo) Create(_ context.Context, p *patient.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.patients {
		if existing.NationalID == p.NationalID {
			return patient.ErrPatientAlreadyExists
		}
	}
	cp := *p
	r.patients[p.ID] = &cp
	return nil
}

func (r *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok || p.DeletedAt != nil {
		return nil, patient.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePatientRepo) GetByNationalID(_ context.Context, nid string) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.NationalID == nid && p.DeletedAt == nil {
			cp := *p
			return &cp, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (r *fakePatientRepo) Update(_ context.Context, p *patient.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[p.ID]; !ok {
		return patient.ErrPatientNotFound
	}
	cp := *p
	r.patients[p.ID] = &cp
	return nil
}

func (r *fakePatientRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok || p.DeletedAt != nil {
		return patient.ErrPatientNotFound
	}
	now := time.Now()
	p.DeletedAt = &now
	p.Status = patient.StatusInactive
	return nil
}

func (r *fakePatientRepo) List(_ context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*patient.Patient
	for _, p := range r.patients {
		if p.DeletedAt != nil || (q.Status != nil && p.Status != *q.Status) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return paginateSlice(out, q.PageRequest), nil
}

func (r *fakePatientRepo) ExistsByNationalID(_ context.Context, nid string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.NationalID == nid && p.DeletedAt == nil && (excludeID == nil || p.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

// ── appointments ───────────────────────────────────────────────────────────

type fakeAppointmentRepo struct {
	mu    sync.Mutex
	appts map[uuid.UUID]*appointment.Appointment
}

func newFakeAppointmentRepo(as ...*appointment.Appointment) *fakeAppointmentRepo {
	r := &fakeAppointmentRepo{appts: map[uuid.UUID]*appointment.Appointment{}}
	for _, a := range as {
		r.appts[a.ID] = a
	}
	return r
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.appts[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.appts[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	return r.Update(ctx, a)
}

func (r *fakeAppointmentRepo) List(_ context.Context, q *appointment.ListAppointmentsQuery) (*appointment.PagedAppointments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*appointment.Appointment
	for _, a := range r.appts {
		if q.PatientID != nil && a.PatientID != *q.PatientID {
			continue
		}
		if q.DoctorID != nil && a.DoctorID != *q.DoctorID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return paginateSlice(out, q.PageRequest), nil
}

func (r *fakeAppointmentRepo) HasConflict(_ context.Context, doctorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.DoctorID != doctorID || (excludeID != nil && a.ID == *excludeID) {
			continue
		}
		if a.Status == appointment.StatusCancelled || a.Status == appointment.StatusNoShow {
			continue
		}
		if a.ScheduledAt.Before(end) && start.Before(a.EndsAt()) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) GetUpcoming(_ context.Context, withinHours int) ([]*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	until := now.Add(time.Duration(withinHours) * time.Hour)
	var out []*appointment.Appointment
	for _, a := range r.appts {
		if a.IsOpen() && a.DeletedAt == nil && !a.ScheduledAt.Before(now) && !a.ScheduledAt.After(until) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

// ── medical records ────────────────────────────────────────────────────────

type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[uuid.UUID]*mr.MedicalRecord
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: map[uuid.UUID]*mr.MedicalRecord{}}
}

func (r *fakeRecordRepo) Create(_ context.Context, rec *mr.MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.records[rec.ID] = &cp
	return nil
}

func (r *fakeRecordRepo) GetByID(_ context.Context, id uuid.UUID) (*mr.MedicalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, mr.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeRecordRepo) AddAddendum(_ context.Context, a *mr.Addendum) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[a.MedicalRecordID]
	if !ok {
		return mr.ErrRecordNotFound
	}
	rec.Addenda = append(rec.Addenda, *a)
	return nil
}

func (r *fakeRecordRepo) List(_ context.Context, q *mr.ListRecordsQuery) (*mr.PagedRecords, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*mr.MedicalRecord
	for _, rec := range r.records {
		if q.PatientID != nil && rec.PatientID != *q.PatientID {
			continue
		}
		out = append(out, rec)
	}
	return paginateSlice(out, q.PageRequest), nil
}

func (r *fakeRecordRepo) GetByAppointmentID(_ context.Context, id uuid.UUID) (*mr.MedicalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.AppointmentID != nil && *rec.AppointmentID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, mr.ErrRecordNotFound
}

// ── departments ────────────────────────────────────────────────────────────

type fakeDeptRepo struct {
	mu        sync.Mutex
	depts     map[uuid.UUID]*department.Department
	listErr   error
	softCalls int
}

func newFakeDeptRepo(ds ...*department.Department) *fakeDeptRepo {
	r := &fakeDeptRepo{depts: map[uuid.UUID]*department.Department{}}
	for _, d := range ds {
		r.depts[d.ID] = d
	}
	return r
}

func (r *fakeDeptRepo) Create(_ context.Context, d *department.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.depts[d.ID] = &cp
	return nil
}

func (r *fakeDeptRepo) GetByID(_ context.Context, id uuid.UUID) (*department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.depts[id]
	if !ok || d.DeletedAt != nil {
		return nil, department.ErrDepartmentNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDeptRepo) Update(_ context.Context, d *department.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.depts[d.ID] = &cp
	return nil
}

func (r *fakeDeptRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.depts[id]
	if !ok {
		return department.ErrDepartmentNotFound
	}
	now := time.Now()
	d.DeletedAt = &now
	r.softCalls++
	return nil
}

func (r *fakeDeptRepo) List(_ context.Context, q *department.ListDepartmentsQuery) (*department.PagedDepartments, error) {
	active, _ := r.ListActive(context.Background())
	return paginateSlice(active, q.PageRequest), nil
}

func (r *fakeDeptRepo) ListActive(_ context.Context) ([]*department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*department.Department
	for _, d := range r.depts {
		if d.IsActive && d.DeletedAt == nil {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeDeptRepo) ExistsByNameOrCode(_ context.Context, name, code string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.depts {
		if excludeID != nil && d.ID == *excludeID {
			continue
		}
		if d.DeletedAt == nil && (d.Name == name || d.Code == code) {
			return true, nil
		}
	}
	return false, nil
}

// ── staff ──────────────────────────────────────────────────────────────────

type fakeStaffRepo struct {
	mu      sync.Mutex
	members map[uuid.UUID]*staff.Member
	listErr error
}

func newFakeStaffRepo(ms ...*staff.Member) *fakeStaffRepo {
	r := &fakeStaffRepo{members: map[uuid.UUID]*staff.Member{}}
	for _, m := range ms {
		r.members[m.ID] = m
	}
	return r
}

func (r *fakeStaffRepo) Create(_ context.Context, m *staff.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id uuid.UUID) (*staff.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok || m.DeletedAt != nil {
		return nil, staff.ErrStaffNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeStaffRepo) Update(_ context.Context, m *staff.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.members[m.ID] = &cp
	return nil
}

func (r *fakeStaffRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return staff.ErrStaffNotFound
	}
	now := time.Now()
	m.DeletedAt = &now
	return nil
}

func (r *fakeStaffRepo) List(_ context.Context, q *staff.ListStaffQuery) (*staff.PagedStaff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*staff.Member
	for _, m := range r.members {
		if m.DeletedAt == nil {
			out = append(out, m)
		}
	}
	return paginateSlice(out, q.PageRequest), nil
}

func (r *fakeStaffRepo) ListActiveByDepartment(_ context.Context, departmentID uuid.UUID) ([]*staff.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*staff.Member
	for _, m := range r.members {
		if m.IsActive() && m.BelongsTo(departmentID) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastName < out[j].LastName })
	return out, nil
}

func (r *fakeStaffRepo) CountActiveByDepartment(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	ms, err := r.ListActiveByDepartment(ctx, departmentID)
	return int64(len(ms)), err
}

func (r *fakeStaffRepo) ExistsByEmail(_ context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.Email == email && m.DeletedAt == nil && (excludeID == nil || m.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

// ── shifts ─────────────────────────────────────────────────────────────────

type fakeShiftRepo struct {
	mu        sync.Mutex
	shifts    map[uuid.UUID]*shift.Shift
	createErr error
}

func newFakeShiftRepo(ss ...*shift.Shift) *fakeShiftRepo {
	r := &fakeShiftRepo{shifts: map[uuid.UUID]*shift.Shift{}}
	for _, s := range ss {
		r.shifts[s.ID] = s
	}
	return r
}

func (r *fakeShiftRepo) Create(_ context.Context, s *shift.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *s
	r.shifts[s.ID] = &cp
	return nil
}

func (r *fakeShiftRepo) GetByID(_ context.Context, id uuid.UUID) (*shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[id]
	if !ok || s.DeletedAt != nil {
		return nil, shift.ErrShiftNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeShiftRepo) Update(_ context.Context, s *shift.Shift) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.shifts[s.ID]; !ok {
		return shift.ErrShiftNotFound
	}
	cp := *s
	r.shifts[s.ID] = &cp
	return nil
}

func (r *fakeShiftRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[id]
	if !ok || s.DeletedAt != nil {
		return shift.ErrShiftNotFound
	}
	now := time.Now()
	s.DeletedAt = &now
	return nil
}

func (r *fakeShiftRepo) List(_ context.Context, q *shift.ListShiftsQuery) (*shift.PagedShifts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*shift.Shift
	for _, s := range r.shifts {
		if s.DeletedAt != nil {
			continue
		}
		if q.StaffID != nil && s.StaffID != *q.StaffID {
			continue
		}
		if q.DepartmentID != nil && s.DepartmentID != *q.DepartmentID {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return paginateSlice(out, q.PageRequest), nil
}

func (r *fakeShiftRepo) HasOverlap(_ context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.shifts {
		if s.StaffID != staffID || s.DeletedAt != nil || s.Status == shift.StatusCancelled {
			continue
		}
		if excludeID != nil && s.ID == *excludeID {
			continue
		}
		if s.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeShiftRepo) ListByDepartmentBetween(_ context.Context, departmentID uuid.UUID, from, to time.Time) ([]*shift.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*shift.Shift
	for _, s := range r.shifts {
		if s.DepartmentID == departmentID && s.DeletedAt == nil && !s.StartTime.Before(from) && s.StartTime.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeShiftRepo) all() []*shift.Shift {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*shift.Shift, 0, len(r.shifts))
	for _, s := range r.shifts {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// ── tasks ──────────────────────────────────────────────────────────────────

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*task.Task
}

func newFakeTaskRepo(ts ...*task.Task) *fakeTaskRepo {
	r := &fakeTaskRepo{tasks: map[uuid.UUID]*task.Task{}}
	for _, t := range ts {
		r.tasks[t.ID] = t
	}
	return r
}

func (r *fakeTaskRepo) Create(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.DeletedAt != nil {
		return nil, task.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, t *task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *fakeTaskRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.DeletedAt != nil {
		return task.ErrTaskNotFound
	}
	now := time.Now()
	t.DeletedAt = &now
	return nil
}

func (r *fakeTaskRepo) List(_ context.Context, q *task.ListTasksQuery) (*task.PagedTasks, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*task.Task
	for _, t := range r.tasks {
		if t.DeletedAt != nil || (q.AssigneeID != nil && t.AssigneeID != *q.AssigneeID) {
			continue
		}
		out = append(out, t)
	}
	return paginateSlice(out, q.PageRequest), nil
}

// ── notifications ──────────────────────────────────────────────────────────

type fakeNotificationRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*notification.Notification
}

func newFakeNotificationRepo(ns ...*notification.Notification) *fakeNotificationRepo {
	r := &fakeNotificationRepo{items: map[uuid.UUID]*notification.Notification{}}
	for _, n := range ns {
		r.items[n.ID] = n
	}
	return r
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.items[n.ID] = &cp
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id uuid.UUID) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, notification.ErrNotificationNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.items[n.ID] = &cp
	return nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, it := range r.items {
		if it.RecipientID == recipientID && !it.IsRead {
			it.MarkRead()
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return notification.ErrNotificationNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeNotificationRepo) List(_ context.Context, q *notification.ListNotificationsQuery) (*notification.PagedNotifications, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*notification.Notification
	for _, it := range r.items {
		if it.RecipientID != q.RecipientID || (q.UnreadOnly && it.IsRead) {
			continue
		}
		out = append(out, it)
	}
	return paginateSlice(out, q.PageRequest), nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, recipientID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, it := range r.items {
		if it.RecipientID == recipientID && !it.IsRead {
			n++
		}
	}
	return n, nil
}
