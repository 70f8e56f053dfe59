package models

import "time"

const NotificationCommentReply = "COMMENT_REPLY"

type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"` // recipient
	Type      string    `gorm:"not null" json:"type"`          // COMMENT_REPLY
	CommentID int64     `gorm:"not null" json:"comment_id"`    // the reply
	ParentID  int64     `gorm:"not null" json:"parent_id"`     // the comment that was answered
	Message   string    `json:"message"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
