package memory

import (
	"context"
	"time"

	"commentshub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	if user.DateJoined.IsZero() {
		user.DateJoined = r.s.now()
	}
	user.Comments = nil
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepo) Update(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && (u.Username == user.Username || u.Email == user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	stored := *user
	stored.Comments = nil
	r.s.users[user.ID] = stored
	return nil
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.deleteUserLocked(id)
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *userRepo) FindVisibleByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsStaff {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *userRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *userRepo) ListVisible(_ context.Context, offset, limit int) ([]models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := sortedUsers(r.s.users, func(u models.User) bool { return !u.IsStaff })
	return window(all, offset, limit), int64(len(all)), nil
}

func (r *userRepo) UsernameTaken(_ context.Context, username string, excludeID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for id, u := range r.s.users {
		if id != excludeID && u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for id, u := range r.s.users {
		if id != excludeID && u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastLogin = &at
	r.s.users[id] = u
	return nil
}
