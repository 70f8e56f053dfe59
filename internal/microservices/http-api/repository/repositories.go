package repository

import "gorm.io/gorm"

// Repositories bundles the stores the services depend on.
type Repositories struct {
	Users         UserRepository
	Comments      CommentRepository
	RefreshTokens RefreshTokenRepository
	Notifications NotificationRepository
}

// NewGormRepositories wires every repository to the same connection pool.
func NewGormRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:         NewUserRepository(db),
		Comments:      NewCommentRepository(db),
		RefreshTokens: NewRefreshTokenRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
