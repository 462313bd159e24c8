package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/config"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	mr "github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/medical_record"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/service"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/authz"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

// The stubs embed the repository interfaces; only the methods a route
// actually reaches are implemented.

type stubUsers struct {
	service.UserRepository
	mu       sync.Mutex
	byEmail  map[string]*domain.User
	attempts []bool
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUsers) UpdateLoginAttempt(_ context.Context, _ uuid.UUID, success bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, success)
	return nil
}

type stubPatients struct {
	patient.Repository
	byID map[uuid.UUID]*patient.Patient
}

func (s *stubPatients) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, patient.ErrPatientNotFound
}

type stubRecords struct {
	mr.Repository
	byID map[uuid.UUID]*mr.MedicalRecord
}

func (s *stubRecords) GetByID(_ context.Context, id uuid.UUID) (*mr.MedicalRecord, error) {
	if r, ok := s.byID[id]; ok {
		return r, nil
	}
	return nil, mr.ErrRecordNotFound
}

type discardAudit struct{}

func (discardAudit) Create(context.Context, *domain.AuditLog) error { return nil }

type apiFixture struct {
	router   *gin.Engine
	jwt      *auth.JWTManager
	users    *stubUsers
	patients *stubPatients
	records  *stubRecords
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	log := zap.NewNop()
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	jwt := auth.NewJWTManager(config.JWTConfig{
		Secret:          "0123456789abcdef0123456789abcdef",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "carehub-test",
	})
	a, err := authz.New()
	require.NoError(t, err)

	auditSvc := service.NewAuditService(discardAudit{}, m, log)
	t.Cleanup(auditSvc.Shutdown)

	f := &apiFixture{
		jwt:      jwt,
		users:    &stubUsers{byEmail: map[string]*domain.User{}},
		patients: &stubPatients{byID: map[uuid.UUID]*patient.Patient{}},
		records:  &stubRecords{byID: map[uuid.UUID]*mr.MedicalRecord{}},
	}

	// No model configured, so auto-assignment is unavailable.
	planner := service.NewShiftPlanner(config.ShiftPlannerConfig{RunTimeout: 2 * time.Minute}, nil, nil, nil, nil, nil, m, log)

	f.router = NewRouter(RouterDeps{
		Config: &config.Config{
			App:     config.AppConfig{Name: "carehub-api", Environment: "test"},
			Server:  config.ServerConfig{MaxBodyBytes: 1 << 20},
			Tracing: config.TracingConfig{ServiceName: "carehub-test"},
		},
		Log:         log,
		Metrics:     m,
		JWT:         jwt,
		Authorizer:  a,
		Limiter:     middleware.NewIPRateLimiter(rate.Inf, 1),
		AuthLimiter: middleware.NewIPRateLimiter(rate.Inf, 1),

		Health:   NewHealthHandler("test", func(context.Context) error { return nil }),
		Auth:     NewAuthHandler(service.NewAuthService(f.users, f.patients, nil, jwt, auditSvc, log)),
		Patients: NewPatientHandler(service.NewPatientService(f.patients, auditSvc, m, log)),
		Records:  NewMedicalRecordHandler(service.NewMedicalRecordService(f.records, f.patients, nil, auditSvc, log)),
		Shifts:   NewShiftHandler(nil, planner),
	})
	return f
}

func (f *apiFixture) token(t *testing.T, claims domain.Claims) string {
	t.Helper()
	if claims.UserID == uuid.Nil {
		claims.UserID = uuid.New()
	}
	pair, err := f.jwt.GenerateTokenPair(&claims)
	require.NoError(t, err)
	return pair.AccessToken
}

func (f *apiFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestRouter_Login(t *testing.T) {
	f := newAPIFixture(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("Correct-Horse-9"), bcrypt.MinCost)
	require.NoError(t, err)
	nurseID := uuid.New()
	f.users.byEmail["jane@carehub.test"] = &domain.User{
		ID: uuid.New(), Email: "jane@carehub.test", PasswordHash: string(hash),
		Role: domain.RoleNurse, StaffID: &nurseID, IsActive: true,
	}

	w := f.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"jane@carehub.test","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"not-an-email","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"jane@carehub.test","password":"Correct-Horse-9"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp APIResponse[domain.TokenPair]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	claims, err := f.jwt.ValidateAccessToken(resp.Data.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleNurse, claims.Role)
	assert.Equal(t, &nurseID, claims.StaffID)
	assert.Equal(t, []bool{false, true}, f.users.attempts)
}

func TestRouter_AutoAssignGuards(t *testing.T) {
	f := newAPIFixture(t)
	staffID := uuid.New()

	w := f.do(http.MethodPost, "/api/v1/shifts/auto-assign", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	nurse := f.token(t, domain.Claims{Role: domain.RoleNurse, StaffID: &staffID})
	w = f.do(http.MethodPost, "/api/v1/shifts/auto-assign", nurse, "")
	assert.Equal(t, http.StatusForbidden, w.Code, "only admins may assign shifts")

	admin := f.token(t, domain.Claims{Role: domain.RoleAdmin})
	w = f.do(http.MethodPost, "/api/v1/shifts/auto-assign", admin, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "PLANNER_DISABLED", body.Code)
}

// deadlineRecorder is a recorder whose write deadline can be moved, like a
// live connection's.
type deadlineRecorder struct {
	*httptest.ResponseRecorder
	deadline time.Time
}

func (r *deadlineRecorder) SetWriteDeadline(t time.Time) error {
	r.deadline = t
	return nil
}

func TestAutoAssign_ExtendsWriteDeadline(t *testing.T) {
	run := func(budget time.Duration) *deadlineRecorder {
		planner := service.NewShiftPlanner(config.ShiftPlannerConfig{RunTimeout: budget}, nil, nil, nil, nil, nil, nil, zap.NewNop())
		h := NewShiftHandler(nil, planner)
		w := &deadlineRecorder{ResponseRecorder: httptest.NewRecorder()}
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/shifts/auto-assign", nil)
		h.AutoAssign(c)
		return w
	}

	before := time.Now()
	w := run(10 * time.Minute)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.WithinDuration(t, before.Add(10*time.Minute+autoAssignWriteSlack), w.deadline, 5*time.Second)

	w = run(0)
	assert.True(t, w.deadline.IsZero(), "an unbounded run leaves the server deadline alone")
}

func TestRouter_PatientScopedReads(t *testing.T) {
	f := newAPIFixture(t)
	own := &patient.Patient{ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace", Status: patient.StatusActive}
	other := &patient.Patient{ID: uuid.New(), FirstName: "Alan", LastName: "Turing", Status: patient.StatusActive}
	f.patients.byID[own.ID] = own
	f.patients.byID[other.ID] = other

	ownRecord := &mr.MedicalRecord{ID: uuid.New(), PatientID: own.ID, DoctorID: uuid.New(), Type: mr.TypeProgressNote}
	otherRecord := &mr.MedicalRecord{ID: uuid.New(), PatientID: other.ID, DoctorID: uuid.New(), Type: mr.TypeProgressNote}
	f.records.byID[ownRecord.ID] = ownRecord
	f.records.byID[otherRecord.ID] = otherRecord

	tok := f.token(t, domain.Claims{Role: domain.RolePatient, PatientID: &own.ID})

	tests := []struct {
		path string
		want int
	}{
		{"/api/v1/patients/" + own.ID.String(), http.StatusOK},
		{"/api/v1/patients/" + other.ID.String(), http.StatusForbidden},
		{"/api/v1/medical-records/" + ownRecord.ID.String(), http.StatusOK},
		{"/api/v1/medical-records/" + otherRecord.ID.String(), http.StatusForbidden},
		{"/api/v1/medical-records/" + uuid.NewString(), http.StatusNotFound},
		{"/api/v1/medical-records/not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := f.do(http.MethodGet, tt.path, tok, "")
		assert.Equal(t, tt.want, w.Code, tt.path)
	}

	// Writing records is a clinical action.
	w := f.do(http.MethodPost, "/api/v1/medical-records", tok, `{}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodGet, "/api/v1/medical-records/"+ownRecord.ID.String(), tok, "")
	var resp APIResponse[RecordResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, own.ID, resp.Data.PatientID)
}

func TestRouter_UnknownRoute(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"route not found"}`, w.Body.String())
}
