package v1

import (
	"context"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentHandler struct {
	svc *service.AppointmentService
}

func NewAppointmentHandler(svc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.ScheduleAppointment(c.Request.Context(), cl, &appointment.CreateAppointmentCommand{
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		ScheduledAt:    req.ScheduledAt,
		DurationMins:   req.DurationMins,
		Type:           req.Type,
		ChiefComplaint: req.ChiefComplaint,
		Notes:          req.Notes,
		Room:           req.Room,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.svc.GetAppointment(c.Request.Context(), cl, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.UpdateAppointment(c.Request.Context(), cl, id, &appointment.UpdateAppointmentCommand{
		ScheduledAt:    req.ScheduledAt,
		DurationMins:   req.DurationMins,
		Type:           req.Type,
		ChiefComplaint: req.ChiefComplaint,
		Notes:          req.Notes,
		Room:           req.Room,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toAppointmentResponse(a))
}

type appointmentAction func(ctx context.Context, caller domain.Caller, id uuid.UUID) (*appointment.Appointment, error)

// transition adapts a bodiless lifecycle call into a handler.
func (h *AppointmentHandler) transition(fn appointmentAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		cl, ok := caller(c)
		if !ok {
			return
		}
		id, ok := parseUUID(c, "id")
		if !ok {
			return
		}

		a, err := fn(c.Request.Context(), cl, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, toAppointmentResponse(a))
	}
}

func (h *AppointmentHandler) Confirm() gin.HandlerFunc { return h.transition(h.svc.ConfirmAppointment) }
func (h *AppointmentHandler) Start() gin.HandlerFunc   { return h.transition(h.svc.StartAppointment) }
func (h *AppointmentHandler) NoShow() gin.HandlerFunc  { return h.transition(h.svc.MarkNoShow) }

func (h *AppointmentHandler) Complete(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req CompleteAppointmentRequest
	// The body is optional.
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.CompleteAppointment(c.Request.Context(), cl, id, &appointment.CompleteAppointmentCommand{
		ActualDurationMins: req.ActualDurationMins,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req CancelAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.CancelAppointment(c.Request.Context(), cl, id, &appointment.CancelAppointmentCommand{Reason: req.Reason})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) List(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	patientID, ok := queryUUID(c, "patient_id")
	if !ok {
		return
	}
	doctorID, ok := queryUUID(c, "doctor_id")
	if !ok {
		return
	}
	from, ok := queryTime(c, "date_from")
	if !ok {
		return
	}
	to, ok := queryTime(c, "date_to")
	if !ok {
		return
	}

	page, err := h.svc.ListAppointments(c.Request.Context(), cl, &appointment.ListAppointmentsQuery{
		PatientID:   patientID,
		DoctorID:    doctorID,
		Status:      queryEnum[appointment.AppointmentStatus](c, "status"),
		Type:        queryEnum[appointment.AppointmentType](c, "type"),
		DateFrom:    from,
		DateTo:      to,
		PageRequest: pageRequest(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPage(c, page, toAppointmentResponse)
}

func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	appts, err := h.svc.Upcoming(c.Request.Context(), cl, parseQueryInt(c, "hours", 24))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]AppointmentResponse, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAppointmentResponse(a))
	}
	respondOK(c, out)
}
