package memory

import (
	"context"
	"time"

	"commentshub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type refreshTokenRepo struct {
	s *Store
}

func (r *refreshTokenRepo) Create(_ context.Context, t *models.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[t.UserID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	for _, existing := range r.s.refreshTokens {
		if existing.TokenHash == t.TokenHash {
			return gorm.ErrDuplicatedKey
		}
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = r.s.now()
	}
	r.s.refreshTokens[t.ID] = *t
	return nil
}

func (r *refreshTokenRepo) FindByHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.refreshTokens {
		if t.TokenHash == tokenHash {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *refreshTokenRepo) Revoke(_ context.Context, tokenID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.refreshTokens[tokenID]
	if !ok || t.Revoked {
		return false, nil
	}
	t.Revoked = true
	r.s.refreshTokens[tokenID] = t
	return true, nil
}

func (r *refreshTokenRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, t := range r.s.refreshTokens {
		if t.Revoked || t.ExpiresAt.Before(before) {
			delete(r.s.refreshTokens, id)
			n++
		}
	}
	return n, nil
}
