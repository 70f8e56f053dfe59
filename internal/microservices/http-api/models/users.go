package models

import (
	"time"
)

type User struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string     `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email      string     `gorm:"uniqueIndex;size:254;not null" json:"email"`
	FirstName  string     `gorm:"size:150;not null;default:''" json:"first_name"`
	LastName   string     `gorm:"size:150;not null;default:''" json:"last_name"`
	Password   string     `gorm:"column:password_hash;not null" json:"-"` // Not show in JSON
	IsStaff    bool       `gorm:"not null;default:false" json:"-"`        // staff accounts are invisible to the API
	IsActive   bool       `gorm:"not null;default:true" json:"-"`
	DateJoined time.Time  `gorm:"autoCreateTime" json:"date_joined"`
	LastLogin  *time.Time `json:"last_login,omitempty"`

	// Associations
	Comments []Comment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (User) TableName() string {
	return "users"
}
