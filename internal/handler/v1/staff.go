package v1

import (
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/staff"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/service"
	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	svc *service.StaffService
}

func NewStaffHandler(svc *service.StaffService) *StaffHandler {
	return &StaffHandler{svc: svc}
}

func (h *StaffHandler) Create(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req CreateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.svc.CreateStaff(c.Request.Context(), cl, &staff.CreateStaffCommand{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Role:            req.Role,
		Specialization:  req.Specialization,
		LicenseNumber:   req.LicenseNumber,
		DepartmentID:    req.DepartmentID,
		HireDate:        req.HireDate,
		InitialPassword: req.InitialPassword,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toStaffResponse(m))
}

func (h *StaffHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	m, err := h.svc.GetStaff(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toStaffResponse(m))
}

func (h *StaffHandler) Update(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req UpdateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.svc.UpdateStaff(c.Request.Context(), cl, id, &staff.UpdateStaffCommand{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Role:           req.Role,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		DepartmentID:   req.DepartmentID,
		Status:         req.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toStaffResponse(m))
}

func (h *StaffHandler) Deactivate(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeactivateStaff(c.Request.Context(), cl, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

func (h *StaffHandler) List(c *gin.Context) {
	deptID, ok := queryUUID(c, "department_id")
	if !ok {
		return
	}

	page, err := h.svc.ListStaff(c.Request.Context(), &staff.ListStaffQuery{
		Search:       c.Query("search"),
		DepartmentID: deptID,
		Role:         queryEnum[domain.Role](c, "role"),
		Status:       queryEnum[staff.Status](c, "status"),
		PageRequest:  pageRequest(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPage(c, page, toStaffResponse)
}
