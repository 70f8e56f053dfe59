package dto

import (
	"time"

	"commentshub/internal/microservices/http-api/models"
)

type NotificationResponse struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	CommentID int64     `json:"comment_id"`
	ParentID  int64     `json:"parent_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModelsToNotificationResponses(ns []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(ns))
	for i, n := range ns {
		out[i] = NotificationResponse{
			ID:        n.ID,
			Type:      n.Type,
			CommentID: n.CommentID,
			ParentID:  n.ParentID,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
	}
	return out
}
