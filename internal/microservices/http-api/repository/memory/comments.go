package memory

import (
	"context"
	"sort"

	"commentshub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type commentRepo struct {
	s *Store
}

func (r *commentRepo) Create(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefsLocked(comment); err != nil {
		return err
	}
	r.s.nextCommentID++
	comment.ID = r.s.nextCommentID
	now := r.s.now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	r.s.comments[comment.ID] = detach(*comment)
	return nil
}

func (r *commentRepo) Update(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[comment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if err := r.checkRefsLocked(comment); err != nil {
		return err
	}
	comment.UpdatedAt = r.s.now()
	r.s.comments[comment.ID] = detach(*comment)
	return nil
}

func (r *commentRepo) Delete(_ context.Context, commentID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[commentID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.deleteCommentLocked(commentID)
	return nil
}

func (r *commentRepo) GetByID(_ context.Context, commentID int64) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[commentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *commentRepo) Exists(_ context.Context, commentID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.comments[commentID]
	return ok, nil
}

func (r *commentRepo) List(_ context.Context, offset, limit int) ([]models.Comment, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]models.Comment, 0, len(r.s.comments))
	for _, c := range r.s.comments {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, offset, limit), int64(len(all)), nil
}

func (r *commentRepo) RepliesOf(_ context.Context, parentIDs []int64) (map[int64][]models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	wanted := make(map[int64]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}

	out := make(map[int64][]models.Comment, len(parentIDs))
	for _, c := range r.s.comments {
		if c.ReplyID == nil || !wanted[*c.ReplyID] {
			continue
		}
		c.User = r.s.users[c.UserID]
		out[*c.ReplyID] = append(out[*c.ReplyID], c)
	}
	for id := range out {
		replies := out[id]
		sort.Slice(replies, func(i, j int) bool { return replies[i].ID > replies[j].ID })
	}
	return out, nil
}

// checkRefsLocked enforces the foreign keys of the comments table.
func (r *commentRepo) checkRefsLocked(c *models.Comment) error {
	if _, ok := r.s.users[c.UserID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if c.ReplyID != nil {
		if _, ok := r.s.comments[*c.ReplyID]; !ok {
			return gorm.ErrForeignKeyViolated
		}
	}
	return nil
}

func detach(c models.Comment) models.Comment {
	c.User = models.User{}
	c.Reply = nil
	return c
}
