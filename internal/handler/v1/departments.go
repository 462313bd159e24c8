package v1

import (
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/department"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/service"
	"github.com/gin-gonic/gin"
)

type DepartmentHandler struct {
	svc      *service.DepartmentService
	staffSvc *service.StaffService
}

func NewDepartmentHandler(svc *service.DepartmentService, staffSvc *service.StaffService) *DepartmentHandler {
	return &DepartmentHandler{svc: svc, staffSvc: staffSvc}
}

func (h *DepartmentHandler) Create(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req CreateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.svc.CreateDepartment(c.Request.Context(), cl, &department.CreateDepartmentCommand{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Location:    req.Location,
		Phone:       req.Phone,
		HeadStaffID: req.HeadStaffID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toDepartmentResponse(d))
}

func (h *DepartmentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	d, err := h.svc.GetDepartment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toDepartmentResponse(d))
}

func (h *DepartmentHandler) Update(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req UpdateDepartmentRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.svc.UpdateDepartment(c.Request.Context(), cl, id, &department.UpdateDepartmentCommand{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Phone:       req.Phone,
		HeadStaffID: req.HeadStaffID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toDepartmentResponse(d))
}

func (h *DepartmentHandler) Delete(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteDepartment(c.Request.Context(), cl, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

func (h *DepartmentHandler) List(c *gin.Context) {
	page, err := h.svc.ListDepartments(c.Request.Context(), &department.ListDepartmentsQuery{
		Search:      c.Query("search"),
		ActiveOnly:  c.Query("active") == "true",
		PageRequest: pageRequest(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPage(c, page, toDepartmentResponse)
}

// Staff lists the active members of one department.
func (h *DepartmentHandler) Staff(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	members, err := h.staffSvc.ListByDepartment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]StaffResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toStaffResponse(m))
	}
	respondOK(c, out)
}
