// Package memory is an in-process Entity Store. Rows live in id-indexed
// arenas; a comment's parent is an id, never a pointer, and replies are found
// by scanning for that id. Deletes follow the same rules as the SQL schema.
package memory

import (
	"sort"
	"sync"
	"time"

	"commentshub/internal/microservices/http-api/models"
	"commentshub/internal/microservices/http-api/repository"
)

type Store struct {
	mu sync.RWMutex

	users         map[int64]models.User
	comments      map[int64]models.Comment
	refreshTokens map[string]models.RefreshToken
	notifications map[int64]models.Notification

	nextUserID         int64
	nextCommentID      int64
	nextNotificationID int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:         make(map[int64]models.User),
		comments:      make(map[int64]models.Comment),
		refreshTokens: make(map[string]models.RefreshToken),
		notifications: make(map[int64]models.Notification),
		now:           time.Now,
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:         &userRepo{s},
		Comments:      &commentRepo{s},
		RefreshTokens: &refreshTokenRepo{s},
		Notifications: &notificationRepo{s},
	}
}

// deleteUserLocked removes a user and everything that references it.
func (s *Store) deleteUserLocked(id int64) {
	delete(s.users, id)
	for cid, c := range s.comments {
		if c.UserID == id {
			s.deleteCommentLocked(cid)
		}
	}
	for tid, t := range s.refreshTokens {
		if t.UserID == id {
			delete(s.refreshTokens, tid)
		}
	}
	for nid, n := range s.notifications {
		if n.UserID == id {
			delete(s.notifications, nid)
		}
	}
}

// deleteCommentLocked removes a comment, clears reply links to it and drops
// notifications about it.
func (s *Store) deleteCommentLocked(id int64) {
	if _, ok := s.comments[id]; !ok {
		return
	}
	delete(s.comments, id)
	for cid, c := range s.comments {
		if c.IsReplyTo(id) {
			c.ReplyID = nil
			s.comments[cid] = c
		}
	}
	for nid, n := range s.notifications {
		if n.CommentID == id || n.ParentID == id {
			delete(s.notifications, nid)
		}
	}
}

func sortedUsers(m map[int64]models.User, keep func(models.User) bool) []models.User {
	out := make([]models.User, 0, len(m))
	for _, u := range m {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// window applies offset/limit; limit <= 0 keeps everything.
func window[T any](rows []T, offset, limit int) []T {
	if limit <= 0 {
		return rows
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) || end < offset {
		end = len(rows)
	}
	return rows[offset:end]
}
