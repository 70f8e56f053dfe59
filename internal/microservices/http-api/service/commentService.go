package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"commentshub/internal/events"
	"commentshub/internal/microservices/http-api/dto"
	"commentshub/internal/microservices/http-api/models"
	"commentshub/internal/microservices/http-api/repository"
)

type CommentService interface {
	List(ctx context.Context, offset, limit int) ([]dto.CommentResponse, int64, error)
	Get(ctx context.Context, commentID int64) (*models.Comment, error)
	Render(ctx context.Context, comment *models.Comment) (dto.CommentResponse, error)
	Create(ctx context.Context, author *models.User, payload dto.Payload) (dto.CommentResponse, error)
	Update(ctx context.Context, comment *models.Comment, payload dto.Payload, partial bool) (dto.CommentResponse, error)
	Delete(ctx context.Context, comment *models.Comment) error
}

type commentService struct {
	repo          repository.CommentRepository
	notifications NotificationService
	publisher     events.Publisher
	logger        *slog.Logger
}

func NewCommentService(
	repo repository.CommentRepository,
	notifications NotificationService,
	publisher events.Publisher,
	logger *slog.Logger,
) CommentService {
	return &commentService{
		repo:          repo,
		notifications: notifications,
		publisher:     publisher,
		logger:        logger,
	}
}

// List returns comments newest first, each with its direct replies.
func (s *commentService) List(ctx context.Context, offset, limit int) ([]dto.CommentResponse, int64, error) {
	comments, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}

	ids := make([]int64, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
	}
	replies, err := s.repo.RepliesOf(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("load replies: %w", err)
	}

	out := make([]dto.CommentResponse, len(comments))
	for i := range comments {
		out[i] = dto.FromModelToCommentResponse(&comments[i], replies[comments[i].ID])
	}
	return out, total, nil
}

func (s *commentService) Get(ctx context.Context, commentID int64) (*models.Comment, error) {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err)
	}
	return comment, nil
}

func (s *commentService) Render(ctx context.Context, comment *models.Comment) (dto.CommentResponse, error) {
	replies, err := s.repo.RepliesOf(ctx, []int64{comment.ID})
	if err != nil {
		return dto.CommentResponse{}, fmt.Errorf("load replies: %w", err)
	}
	return dto.FromModelToCommentResponse(comment, replies[comment.ID]), nil
}

// Create stores a comment owned by author; any author in the payload is ignored.
func (s *commentService) Create(ctx context.Context, author *models.User, payload dto.Payload) (dto.CommentResponse, error) {
	comment := &models.Comment{UserID: author.ID}
	if err := s.bind(ctx, comment, payload, false); err != nil {
		return dto.CommentResponse{}, err
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return dto.CommentResponse{}, fmt.Errorf("create comment: %w", err)
	}

	s.publish(ctx, events.CommentCreated, comment, 0)
	s.afterReply(ctx, comment, nil)
	return s.Render(ctx, comment)
}

func (s *commentService) Update(ctx context.Context, comment *models.Comment, payload dto.Payload, partial bool) (dto.CommentResponse, error) {
	previousReply := comment.ReplyID
	updated := *comment
	if err := s.bind(ctx, &updated, payload, partial); err != nil {
		return dto.CommentResponse{}, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return dto.CommentResponse{}, fmt.Errorf("update comment: %w", err)
	}

	s.afterReply(ctx, &updated, previousReply)
	return s.Render(ctx, &updated)
}

func (s *commentService) Delete(ctx context.Context, comment *models.Comment) error {
	if err := s.repo.Delete(ctx, comment.ID); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *commentService) bind(ctx context.Context, comment *models.Comment, payload dto.Payload, partial bool) error {
	d, errs := dto.BindCommentWrite(payload, partial)
	if d.Reply != nil {
		exists, err := s.repo.Exists(ctx, *d.Reply)
		if err != nil {
			return fmt.Errorf("check reply: %w", err)
		}
		if !exists {
			errs.Add("reply", fmt.Sprintf(dto.MsgDoesNotExist, strconv.FormatInt(*d.Reply, 10)), dto.CodeDoesNotExist)
		}
	}
	if err := errs.Err(); err != nil {
		return err
	}
	d.ApplyTo(comment)
	return nil
}

// afterReply notifies the owner of a newly answered comment. Failures are
// logged only.
func (s *commentService) afterReply(ctx context.Context, comment *models.Comment, previousReply *int64) {
	if comment.ReplyID == nil {
		return
	}
	if previousReply != nil && *previousReply == *comment.ReplyID {
		return
	}

	parent, err := s.repo.GetByID(ctx, *comment.ReplyID)
	if err != nil {
		s.logger.Warn("load replied comment", "comment_id", comment.ID, "reply_id", *comment.ReplyID, "error", err)
		return
	}
	if parent.UserID == comment.UserID {
		return
	}

	if err := s.notifications.NotifyReply(ctx, parent, comment); err != nil {
		s.logger.Warn("store reply notification", "comment_id", comment.ID, "error", err)
	}
	s.publish(ctx, events.CommentReplied, comment, parent.UserID)
}

func (s *commentService) publish(ctx context.Context, routingKey string, comment *models.Comment, parentOwner int64) {
	event := events.CommentEvent{
		CommentID:     comment.ID,
		UserID:        comment.UserID,
		ReplyTo:       comment.ReplyID,
		ParentOwnerID: parentOwner,
		Text:          comment.Text,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		s.logger.Warn("publish comment event", "routing_key", routingKey, "comment_id", comment.ID, "error", err)
	}
}
