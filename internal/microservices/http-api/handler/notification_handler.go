package handler

import (
	"context"
	"net/http"

	"commentshub/internal/microservices/http-api/dto"
	"commentshub/internal/microservices/http-api/middleware"
	"commentshub/internal/microservices/http-api/policy"
	"commentshub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc    service.NotificationService
	policy policy.Authorizer
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc, policy: policy.NotificationPolicy{}}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	gate := func(op policy.Operation) gin.HandlerFunc { return middleware.RequirePermission(h.policy, op) }

	notifications := rg.Group("/notifications")
	{
		notifications.GET("/unread/", gate(policy.OpList), h.GetUnread)
		notifications.PUT("/read-all/", gate(policy.OpUpdate), h.MarkAllAsRead)
		notifications.PUT("/:id/read/", gate(policy.OpUpdate), h.MarkAsRead)
	}
}

// GetUnread returns all unread notifications for the authenticated user
func (h *NotificationHandler) GetUnread(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	notifications, err := h.svc.GetUnread(ctx, middleware.CallerFrom(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": dto.FromModelsToNotificationResponses(notifications)})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	n, err := h.svc.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.policy.HasObjectPermission(middleware.CallerFrom(c), policy.OpUpdate, n); err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.MarkAsRead(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllAsRead marks all notifications as read for the user
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.svc.MarkAllAsRead(ctx, middleware.CallerFrom(c).ID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
