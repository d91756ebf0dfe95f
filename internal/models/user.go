package models

import (
	"github.com/gofrs/uuid"
)

// User is identified purely by name; there are no credentials.
type User struct {
	UserID   uuid.UUID `json:"user_id" gorm:"column:user_id;primaryKey;type:uuid"`
	UserName string    `json:"user_name" gorm:"column:user_name;uniqueIndex;not null"`

	Lists []TodoList `json:"lists,omitempty" gorm:"foreignKey:UserID;references:UserID"`
}

func (User) TableName() string {
	return "users"
}
