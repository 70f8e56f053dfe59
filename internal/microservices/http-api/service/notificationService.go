package service

import (
	"context"
	"fmt"

	"commentshub/internal/microservices/http-api/models"
	"commentshub/internal/microservices/http-api/repository"
)

type NotificationService interface {
	NotifyReply(ctx context.Context, parent, reply *models.Comment) error
	GetUnread(ctx context.Context, userID int64) ([]models.Notification, error)
	Get(ctx context.Context, notificationID int64) (*models.Notification, error)
	MarkAsRead(ctx context.Context, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// NotifyReply tells the parent's author about a reply.
func (s *notificationService) NotifyReply(ctx context.Context, parent, reply *models.Comment) error {
	return s.repo.Create(ctx, &models.Notification{
		UserID:    parent.UserID,
		Type:      models.NotificationCommentReply,
		CommentID: reply.ID,
		ParentID:  parent.ID,
		Message:   fmt.Sprintf("Comment #%d replied to your comment #%d", reply.ID, parent.ID),
	})
}

func (s *notificationService) GetUnread(ctx context.Context, userID int64) ([]models.Notification, error) {
	return s.repo.GetUnreadByUser(ctx, userID)
}

func (s *notificationService) Get(ctx context.Context, notificationID int64) (*models.Notification, error) {
	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, notFound(err)
	}
	return n, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, notificationID int64) error {
	return notFound(s.repo.MarkAsRead(ctx, notificationID))
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
