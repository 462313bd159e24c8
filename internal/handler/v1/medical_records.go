package v1

import (
	mr "github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/medical_record"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/service"
	"github.com/gin-gonic/gin"
)

type MedicalRecordHandler struct {
	svc *service.MedicalRecordService
}

func NewMedicalRecordHandler(svc *service.MedicalRecordService) *MedicalRecordHandler {
	return &MedicalRecordHandler{svc: svc}
}

func (h *MedicalRecordHandler) Create(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req CreateRecordRequest
	if !bindJSON(c, &req) {
		return
	}

	rec, err := h.svc.CreateRecord(c.Request.Context(), cl, req.command())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toRecordResponse(rec))
}

func (h *MedicalRecordHandler) Get(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	rec, err := h.svc.GetRecord(c.Request.Context(), cl, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toRecordResponse(rec))
}

func (h *MedicalRecordHandler) ByAppointment(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "appointment_id")
	if !ok {
		return
	}

	rec, err := h.svc.GetByAppointment(c.Request.Context(), cl, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toRecordResponse(rec))
}

func (h *MedicalRecordHandler) AddAddendum(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req AddAddendumRequest
	if !bindJSON(c, &req) {
		return
	}

	add, err := h.svc.AddAddendum(c.Request.Context(), cl, &mr.AddAddendumCommand{
		MedicalRecordID: id,
		Content:         req.Content,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toAddendumResponse(add))
}

func (h *MedicalRecordHandler) List(c *gin.Context) {
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
	apptID, ok := queryUUID(c, "appointment_id")
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

	page, err := h.svc.ListRecords(c.Request.Context(), cl, &mr.ListRecordsQuery{
		PatientID:     patientID,
		DoctorID:      doctorID,
		Type:          queryEnum[mr.RecordType](c, "type"),
		AppointmentID: apptID,
		DateFrom:      from,
		DateTo:        to,
		PageRequest:   pageRequest(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPage(c, page, toRecordResponse)
}
