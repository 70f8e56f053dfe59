package models

import "time"

// Comment is a text post. ReplyID points at the parent comment, if any;
// the replies of a comment are looked up by id rather than held as pointers.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user" gorm:"not null;index"`
	Home      string    `json:"home" gorm:"size:200;not null;default:''"`
	Text      string    `json:"text" gorm:"not null;type:text"`
	ReplyID   *int64    `json:"reply" gorm:"index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User  User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Reply *Comment `json:"-" gorm:"foreignKey:ReplyID;constraint:OnDelete:SET NULL;"`
}

func (Comment) TableName() string {
	return "comments"
}

// IsReplyTo reports whether the comment answers the comment with the given id.
func (c *Comment) IsReplyTo(id int64) bool {
	return c.ReplyID != nil && *c.ReplyID == id
}
