package database

import (
	"fmt"

	"todo-planner/internal/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the users, todolists and tasks tables.
// Foreign keys carry no ON DELETE action; list deletion cascades by hand.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.TodoList{}, &models.Task{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
