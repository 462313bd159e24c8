package v1

import (
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/patient"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/service"
	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	svc *service.PatientService
}

func NewPatientHandler(svc *service.PatientService) *PatientHandler {
	return &PatientHandler{svc: svc}
}

func (h *PatientHandler) Create(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req CreatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.CreatePatient(c.Request.Context(), cl, req.command())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toPatientResponse(p))
}

func (h *PatientHandler) Get(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.GetPatient(c.Request.Context(), cl, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toPatientResponse(p))
}

func (h *PatientHandler) Lookup(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	p, err := h.svc.FindByNationalID(c.Request.Context(), cl, c.Query("national_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toPatientResponse(p))
}

func (h *PatientHandler) Update(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req UpdatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.UpdatePatient(c.Request.Context(), cl, id, req.command())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toPatientResponse(p))
}

func (h *PatientHandler) Deactivate(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeactivatePatient(c.Request.Context(), cl, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

func (h *PatientHandler) List(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	doctorID, ok := queryUUID(c, "assigned_doctor_id")
	if !ok {
		return
	}

	q := &patient.ListPatientsQuery{
		Search:           c.Query("search"),
		Status:           queryEnum[patient.Status](c, "status"),
		AssignedDoctorID: doctorID,
		SortBy:           c.Query("sort_by"),
		SortOrder:        c.Query("sort_order"),
		PageRequest:      pageRequest(c),
	}
	page, err := h.svc.ListPatients(c.Request.Context(), cl, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPage(c, page, toPatientResponse)
}
