package memory

import (
	"context"
	"sort"

	"commentshub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type notificationRepo struct {
	s *Store
}

func (r *notificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[n.UserID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	r.s.nextNotificationID++
	n.ID = r.s.nextNotificationID
	n.CreatedAt = r.s.now()
	r.s.notifications[n.ID] = *n
	return nil
}

func (r *notificationRepo) GetByID(_ context.Context, id int64) (*models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &n, nil
}

func (r *notificationRepo) GetUnreadByUser(_ context.Context, userID int64) ([]models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Notification{}
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *notificationRepo) MarkAsRead(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.Read = true
	r.s.notifications[id] = n
	return nil
}

func (r *notificationRepo) MarkAllAsRead(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			r.s.notifications[id] = n
		}
	}
	return nil
}
