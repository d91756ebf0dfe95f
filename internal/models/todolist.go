package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type TodoList struct {
	ListID    uuid.UUID `json:"list_id" gorm:"column:list_id;primaryKey;type:uuid"`
	UserID    uuid.UUID `json:"user_id" gorm:"column:user_id;type:uuid;not null;index"`
	ListName  string    `json:"list_name" gorm:"column:list_name;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`

	Tasks []Task `json:"tasks" gorm:"foreignKey:ListID;references:ListID"`
}

func (TodoList) TableName() string {
	return "todolists"
}

func (l TodoList) CompletedCount() int {
	count := 0
	for _, task := range l.Tasks {
		if task.IsCompleted {
			count++
		}
	}
	return count
}

func (l TodoList) IsDone() bool {
	return len(l.Tasks) > 0 && l.CompletedCount() == len(l.Tasks)
}
