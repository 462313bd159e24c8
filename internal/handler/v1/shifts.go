package v1

import (
	"net/http"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/shift"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/service"
	"github.com/gin-gonic/gin"
)

type ShiftHandler struct {
	svc     *service.ShiftService
	planner *service.ShiftPlanner
}

func NewShiftHandler(svc *service.ShiftService, planner *service.ShiftPlanner) *ShiftHandler {
	return &ShiftHandler{svc: svc, planner: planner}
}

func (h *ShiftHandler) Assign(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req AssignShiftRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.svc.AssignShift(c.Request.Context(), cl, &shift.AssignShiftCommand{
		StaffID:      req.StaffID,
		DepartmentID: req.DepartmentID,
		Type:         req.Type,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Notes:        req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toShiftResponse(s))
}

// autoAssignWriteSlack is added on top of the planner's run budget so the
// report can still be written once the run finishes.
const autoAssignWriteSlack = 30 * time.Second

// AutoAssign runs one planning pass synchronously and returns its report.
// The response deadline is moved past the planner's run budget.
func (h *ShiftHandler) AutoAssign(c *gin.Context) {
	if budget := h.planner.RunTimeout(); budget > 0 {
		// Writers that cannot move their deadline report http.ErrNotSupported.
		_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Now().Add(budget + autoAssignWriteSlack))
	}
	report, err := h.planner.RunOnce(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, report)
}

func (h *ShiftHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	s, err := h.svc.GetShift(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toShiftResponse(s))
}

func (h *ShiftHandler) Update(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req UpdateShiftRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.svc.UpdateShift(c.Request.Context(), cl, id, &shift.UpdateShiftCommand{
		Type:      req.Type,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Notes:     req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toShiftResponse(s))
}

func (h *ShiftHandler) Cancel(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	s, err := h.svc.CancelShift(c.Request.Context(), cl, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toShiftResponse(s))
}

func (h *ShiftHandler) Complete(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	s, err := h.svc.CompleteShift(c.Request.Context(), cl, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toShiftResponse(s))
}

func (h *ShiftHandler) Delete(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteShift(c.Request.Context(), cl, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

func (h *ShiftHandler) List(c *gin.Context) {
	q, ok := h.listQuery(c)
	if !ok {
		return
	}

	page, err := h.svc.ListShifts(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPage(c, page, toShiftResponse)
}

func (h *ShiftHandler) Mine(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	q, ok := h.listQuery(c)
	if !ok {
		return
	}

	page, err := h.svc.MyShifts(c.Request.Context(), cl, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPage(c, page, toShiftResponse)
}

func (h *ShiftHandler) listQuery(c *gin.Context) (*shift.ListShiftsQuery, bool) {
	staffID, ok := queryUUID(c, "staff_id")
	if !ok {
		return nil, false
	}
	deptID, ok := queryUUID(c, "department_id")
	if !ok {
		return nil, false
	}
	from, ok := queryTime(c, "from")
	if !ok {
		return nil, false
	}
	to, ok := queryTime(c, "to")
	if !ok {
		return nil, false
	}
	return &shift.ListShiftsQuery{
		StaffID:      staffID,
		DepartmentID: deptID,
		Status:       queryEnum[shift.Status](c, "status"),
		Source:       queryEnum[shift.Source](c, "source"),
		From:         from,
		To:           to,
		PageRequest:  pageRequest(c),
	}, true
}
