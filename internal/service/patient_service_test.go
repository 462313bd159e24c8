package service

import (
	"context"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/patient"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPatientService(t *testing.T) (*PatientService, *fakePatientRepo, *fakeAuditRepo) {
	t.Helper()
	repo := newFakePatientRepo()
	auditSvc, auditRepo := testAudit(t)
	return NewPatientService(repo, auditSvc, testMetrics(), zap.NewNop()), repo, auditRepo
}

func validPatientCmd() *patient.CreatePatientCommand {
	return &patient.CreatePatientCommand{
		FirstName:   " John ",
		LastName:    "Smith",
		DateOfBirth: time.Date(1970, 2, 3, 0, 0, 0, 0, time.UTC),
		Gender:      patient.GenderMale,
		BloodType:   patient.BloodTypeOPos,
		NationalID:  "NID-7",
		Email:       "John@Example.com",
		Allergies:   []string{"penicillin"},
	}
}

func TestCreatePatient(t *testing.T) {
	svc, repo, auditRepo := newPatientService(t)
	caller := staffCaller(domain.RoleReceptionist, uuid.New())

	p, err := svc.CreatePatient(context.Background(), caller, validPatientCmd())
	require.NoError(t, err)
	assert.Equal(t, "John", p.FirstName)
	assert.Equal(t, "john@example.com", p.Email)
	assert.Equal(t, patient.StatusActive, p.Status)
	assert.Equal(t, caller.UserID, p.CreatedBy)

	_, err = repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)

	_, err = svc.CreatePatient(context.Background(), caller, validPatientCmd())
	assert.ErrorIs(t, err, patient.ErrPatientAlreadyExists)

	require.Eventually(t, func() bool { return len(auditRepo.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	entry := auditRepo.snapshot()[0]
	assert.Equal(t, domain.ActionCreate, entry.Action)
	assert.Equal(t, resourcePatient, entry.ResourceType)
	assert.Equal(t, p.ID.String(), entry.ResourceID)
	assert.Equal(t, caller.RequestID, entry.RequestID)
}

func TestCreatePatient_Validation(t *testing.T) {
	svc, _, _ := newPatientService(t)

	_, err := svc.CreatePatient(context.Background(), adminCaller(), &patient.CreatePatientCommand{
		DateOfBirth: time.Now().Add(24 * time.Hour),
		Gender:      "x",
		BloodType:   "Z+",
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "blood_type is invalid")
	assert.Contains(t, ve.Fields, "date_of_birth cannot be in the future")
	assert.Contains(t, ve.Fields, "national_id is required")
}

func TestGetPatient_Ownership(t *testing.T) {
	svc, _, _ := newPatientService(t)
	ctx := context.Background()
	p, err := svc.CreatePatient(ctx, adminCaller(), validPatientCmd())
	require.NoError(t, err)

	_, err = svc.GetPatient(ctx, patientCaller(p.ID), p.ID)
	assert.NoError(t, err)
	_, err = svc.GetPatient(ctx, patientCaller(uuid.New()), p.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.GetPatient(ctx, adminCaller(), uuid.New())
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)
}

func TestUpdatePatient(t *testing.T) {
	svc, repo, _ := newPatientService(t)
	ctx := context.Background()
	p, err := svc.CreatePatient(ctx, adminCaller(), validPatientCmd())
	require.NoError(t, err)

	blank := "  "
	_, err = svc.UpdatePatient(ctx, adminCaller(), p.ID, &patient.UpdatePatientCommand{FirstName: &blank})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	city := "Lisbon"
	updated, err := svc.UpdatePatient(ctx, adminCaller(), p.ID, &patient.UpdatePatientCommand{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", updated.City)

	stored, _ := repo.GetByID(ctx, p.ID)
	stored.MarkDeceased()
	require.NoError(t, repo.Update(ctx, stored))
	_, err = svc.UpdatePatient(ctx, adminCaller(), p.ID, &patient.UpdatePatientCommand{City: &city})
	assert.ErrorIs(t, err, patient.ErrPatientDeceased)
	assert.ErrorIs(t, svc.DeactivatePatient(ctx, adminCaller(), p.ID), patient.ErrPatientDeceased)
}

func TestDeactivatePatient(t *testing.T) {
	svc, _, _ := newPatientService(t)
	ctx := context.Background()
	p, err := svc.CreatePatient(ctx, adminCaller(), validPatientCmd())
	require.NoError(t, err)

	require.NoError(t, svc.DeactivatePatient(ctx, adminCaller(), p.ID))
	_, err = svc.GetPatient(ctx, adminCaller(), p.ID)
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)
}

func TestListPatients(t *testing.T) {
	svc, _, _ := newPatientService(t)
	ctx := context.Background()
	_, err := svc.CreatePatient(ctx, adminCaller(), validPatientCmd())
	require.NoError(t, err)

	_, err = svc.ListPatients(ctx, patientCaller(uuid.New()), &patient.ListPatientsQuery{})
	assert.ErrorIs(t, err, ErrForbidden)

	bad := patient.Status("gone")
	_, err = svc.ListPatients(ctx, adminCaller(), &patient.ListPatientsQuery{Status: &bad})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	page, err := svc.ListPatients(ctx, adminCaller(), &patient.ListPatientsQuery{PageRequest: domain.PageRequest{PageSize: 500}})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPageSize, page.PageSize)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Items, 1)
}

func TestChangedPatientFields(t *testing.T) {
	city, notes := "Porto", "n"
	got := changedPatientFields(&patient.UpdatePatientCommand{City: &city, Notes: &notes})
	assert.Equal(t, []string{"address", "notes"}, got)
}

func TestFindByNationalID(t *testing.T) {
	svc, _, _ := newPatientService(t)
	ctx := context.Background()
	p, err := svc.CreatePatient(ctx, adminCaller(), validPatientCmd())
	require.NoError(t, err)

	found, err := svc.FindByNationalID(ctx, staffCaller(domain.RoleReceptionist, uuid.New()), " NID-7 ")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	_, err = svc.FindByNationalID(ctx, patientCaller(p.ID), "NID-7")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.FindByNationalID(ctx, adminCaller(), "  ")
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = svc.FindByNationalID(ctx, adminCaller(), "NID-8")
	assert.ErrorIs(t, err, patient.ErrPatientNotFound)
}
