package v1

import (
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/task"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/service"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

func (h *TaskHandler) Create(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.svc.CreateTask(c.Request.Context(), cl, &task.CreateTaskCommand{
		Title:        req.Title,
		Description:  req.Description,
		AssigneeID:   req.AssigneeID,
		DepartmentID: req.DepartmentID,
		PatientID:    req.PatientID,
		Priority:     req.Priority,
		DueAt:        req.DueAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toTaskResponse(t))
}

func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	t, err := h.svc.GetTask(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toTaskResponse(t))
}

func (h *TaskHandler) Update(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.svc.UpdateTask(c.Request.Context(), cl, id, &task.UpdateTaskCommand{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Priority:    req.Priority,
		DueAt:       req.DueAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toTaskResponse(t))
}

func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	var req UpdateTaskStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.svc.UpdateStatus(c.Request.Context(), cl, id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toTaskResponse(t))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteTask(c.Request.Context(), cl, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

func (h *TaskHandler) List(c *gin.Context) {
	q, ok := h.listQuery(c)
	if !ok {
		return
	}

	page, err := h.svc.ListTasks(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPage(c, page, toTaskResponse)
}

func (h *TaskHandler) Mine(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	q, ok := h.listQuery(c)
	if !ok {
		return
	}

	page, err := h.svc.MyTasks(c.Request.Context(), cl, q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPage(c, page, toTaskResponse)
}

func (h *TaskHandler) listQuery(c *gin.Context) (*task.ListTasksQuery, bool) {
	assigneeID, ok := queryUUID(c, "assignee_id")
	if !ok {
		return nil, false
	}
	deptID, ok := queryUUID(c, "department_id")
	if !ok {
		return nil, false
	}
	patientID, ok := queryUUID(c, "patient_id")
	if !ok {
		return nil, false
	}
	return &task.ListTasksQuery{
		AssigneeID:   assigneeID,
		DepartmentID: deptID,
		PatientID:    patientID,
		Status:       queryEnum[task.Status](c, "status"),
		Priority:     queryEnum[task.Priority](c, "priority"),
		OverdueOnly:  c.Query("overdue") == "true",
		PageRequest:  pageRequest(c),
	}, true
}
