package models

import (
	"github.com/gofrs/uuid"
)

type Task struct {
	TaskID          uuid.UUID `json:"task_id" gorm:"column:task_id;primaryKey;type:uuid"`
	ListID          uuid.UUID `json:"list_id" gorm:"column:list_id;type:uuid;not null;index"`
	TaskDescription string    `json:"task_description" gorm:"column:task_description;not null"`
	IsCompleted     bool      `json:"is_completed" gorm:"column:is_completed;not null;default:false"`
	// Position keeps the order the plan was generated in.
	Position int `json:"position" gorm:"column:position;not null;default:0"`
}

func (Task) TableName() string {
	return "tasks"
}
