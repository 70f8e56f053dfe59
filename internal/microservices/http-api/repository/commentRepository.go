package repository

import (
	"context"

	"commentshub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, commentID int64) error
	GetByID(ctx context.Context, commentID int64) (*models.Comment, error)
	Exists(ctx context.Context, commentID int64) (bool, error)
	List(ctx context.Context, offset, limit int) ([]models.Comment, int64, error)
	RepliesOf(ctx context.Context, parentIDs []int64) (map[int64][]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create a new comment
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

// Update an existing comment
func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(comment).Error
}

// Delete a comment; replies pointing at it keep existing with reply_id cleared.
func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, commentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByID retrieves a comment by its ID
func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Where("id = ?", commentID).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Exists(ctx context.Context, commentID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", commentID).Count(&n).Error
	return n > 0, err
}

// List returns comments newest first. limit <= 0 returns everything.
func (r *commentRepository) List(ctx context.Context, offset, limit int) ([]models.Comment, int64, error) {
	var comments []models.Comment
	var total int64

	// Count total comments
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// RepliesOf loads the direct replies of each parent with their authors,
// newest first, in a single query.
func (r *commentRepository) RepliesOf(ctx context.Context, parentIDs []int64) (map[int64][]models.Comment, error) {
	out := make(map[int64][]models.Comment, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}

	var replies []models.Comment
	err := r.db.WithContext(ctx).
		Where("reply_id IN ?", parentIDs).
		Preload("User").
		Order("id DESC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}

	for _, reply := range replies {
		out[*reply.ReplyID] = append(out[*reply.ReplyID], reply)
	}
	return out, nil
}
