package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"
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
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

type PagedResponse[T any] struct {
	Data []T     `json:"data"`
	Meta PageMeta `json:"meta"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondPage converts a page of domain rows with conv and writes it with pagination meta.
func respondPage[T, R any](c *gin.Context, page *domain.Page[T], conv func(T) R) {
	items := make([]R, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, conv(it))
	}
	c.JSON(http.StatusOK, PagedResponse[R]{
		Data: items,
		Meta: PageMeta{
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalCount: page.TotalCount,
			TotalPages: page.TotalPages,
		},
	})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, mr.ErrRecordNotFound),
		errors.Is(err, department.ErrDepartmentNotFound),
		errors.Is(err, staff.ErrStaffNotFound),
		errors.Is(err, shift.ErrShiftNotFound),
		errors.Is(err, task.ErrTaskNotFound),
		errors.Is(err, notification.ErrNotificationNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, patient.ErrPatientAlreadyExists),
		errors.Is(err, appointment.ErrAppointmentConflict),
		errors.Is(err, department.ErrDepartmentExists),
		errors.Is(err, department.ErrDepartmentInUse),
		errors.Is(err, staff.ErrStaffAlreadyExists),
		errors.Is(err, shift.ErrShiftOverlap),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrPlannerBusy):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "PLANNER_BUSY"})

	case errors.Is(err, service.ErrPlannerDisabled):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Code: "PLANNER_DISABLED"})

	case errors.Is(err, appointment.ErrScheduledInPast),
		errors.Is(err, appointment.ErrInvalidDuration),
		errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrInvalidAppointmentType),
		errors.Is(err, appointment.ErrNotReschedulable),
		errors.Is(err, service.ErrNotADoctor),
		errors.Is(err, patient.ErrPatientDeceased),
		errors.Is(err, patient.ErrPatientInactive),
		errors.Is(err, patient.ErrInvalidGender),
		errors.Is(err, mr.ErrInvalidRecordType),
		errors.Is(err, mr.ErrEmptyAddendum),
		errors.Is(err, department.ErrDepartmentInactive),
		errors.Is(err, staff.ErrStaffInactive),
		errors.Is(err, staff.ErrInvalidStaffRole),
		errors.Is(err, staff.ErrInvalidStatus),
		errors.Is(err, shift.ErrInvalidInterval),
		errors.Is(err, shift.ErrShiftTooLong),
		errors.Is(err, shift.ErrInvalidShiftType),
		errors.Is(err, shift.ErrInvalidStatusTransition),
		errors.Is(err, shift.ErrStaffNotInDepartment),
		errors.Is(err, task.ErrInvalidPriority),
		errors.Is(err, task.ErrInvalidStatus),
		errors.Is(err, task.ErrInvalidStatusTransition),
		errors.Is(err, task.ErrTaskFinished),
		errors.Is(err, notification.ErrInvalidType),
		errors.Is(err, service.ErrWeakPassword):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "account inactive", Code: "ACCOUNT_INACTIVE"})

	case errors.Is(err, service.ErrAccountLocked):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "account temporarily locked",
			Code:  "ACCOUNT_LOCKED",
		})

	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "operation timed out", Code: "TIMEOUT"})

	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

func pageRequest(c *gin.Context) domain.PageRequest {
	return domain.PageRequest{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", domain.DefaultPageSize),
	}
}

// queryUUID reads an optional UUID query parameter. A malformed value writes 400.
func queryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+key+": must be a valid UUID")
		return nil, false
	}
	return &id, true
}

// queryTime reads an optional RFC3339 query parameter. A malformed value writes 400.
func queryTime(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid "+key+": must be RFC3339")
		return nil, false
	}
	return &t, true
}

func queryEnum[T ~string](c *gin.Context, key string) *T {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v := T(raw)
	return &v
}

// caller returns the authenticated caller or writes 401.
func caller(c *gin.Context) (domain.Caller, bool) {
	cl, ok := middleware.CallerFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return domain.Caller{}, false
	}
	return cl, true
}
