package v1

import (
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/notification"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/service"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc *service.NotificationService
}

func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	page, err := h.svc.ListMine(c.Request.Context(), cl, &notification.ListNotificationsQuery{
		UnreadOnly:  c.Query("unread") == "true",
		PageRequest: pageRequest(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPage(c, page, toNotificationResponse)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	n, err := h.svc.UnreadCount(c.Request.Context(), cl)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"unread": n})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	n, err := h.svc.MarkRead(c.Request.Context(), cl, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toNotificationResponse(n))
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}

	n, err := h.svc.MarkAllRead(c.Request.Context(), cl)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": n})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), cl, id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondNoContent(c)
}

func (h *NotificationHandler) Send(c *gin.Context) {
	cl, ok := caller(c)
	if !ok {
		return
	}
	var req SendNotificationRequest
	if !bindJSON(c, &req) {
		return
	}

	n, err := h.svc.Send(c.Request.Context(), cl, &notification.SendCommand{
		RecipientID:  req.RecipientID,
		Type:         req.Type,
		Title:        req.Title,
		Message:      req.Message,
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toNotificationResponse(n))
}
