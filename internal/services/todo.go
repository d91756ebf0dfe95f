package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"todo-planner/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrEmptyTaskBatch = errors.New("a list needs at least one task")

// NewTask is one entry of the batch stored together with a new list.
type NewTask struct {
	TaskID      uuid.UUID
	Description string
}

type TodoService interface {
	CreateListWithTasks(ctx context.Context, db *gorm.DB, userID, listID uuid.UUID, listName string, tasks []NewTask) error
	ListUserListsWithTasks(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]models.TodoList, error)
	DeleteTask(ctx context.Context, db *gorm.DB, taskID uuid.UUID) error
	DeleteListCascade(ctx context.Context, db *gorm.DB, listID uuid.UUID) error
	SetTaskCompletion(ctx context.Context, db *gorm.DB, taskID uuid.UUID, completed bool) error
}

type TodoServiceImpl struct{}

func NewTodoService() *TodoServiceImpl {
	return &TodoServiceImpl{}
}

// CreateListWithTasks stores the list and every task in one transaction.
// If any insert fails nothing is kept, including the list row.
func (s *TodoServiceImpl) CreateListWithTasks(ctx context.Context, db *gorm.DB, userID, listID uuid.UUID, listName string, tasks []NewTask) error {
	if len(tasks) == 0 {
		return ErrEmptyTaskBatch
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		list := models.TodoList{
			ListID:   listID,
			UserID:   userID,
			ListName: listName,
		}
		if err := tx.Create(&list).Error; err != nil {
			return fmt.Errorf("insert list: %w", err)
		}

		for i, t := range tasks {
			task := models.Task{
				TaskID:          t.TaskID,
				ListID:          listID,
				TaskDescription: t.Description,
				IsCompleted:     false,
				Position:        i,
			}
			if err := tx.Create(&task).Error; err != nil {
				return fmt.Errorf("insert task %d: %w", i, err)
			}
		}

		return nil
	})
	if err != nil {
		log.Printf("Error saving list: %v", err)
		return fmt.Errorf("failed to save list: %w", err)
	}

	return nil
}

// ListUserListsWithTasks returns the user's lists, newest first, each with
// its tasks in generation order. On failure the slice is empty, never nil.
func (s *TodoServiceImpl) ListUserListsWithTasks(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]models.TodoList, error) {
	lists := []models.TodoList{}

	err := db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC").Order("task_id ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("list_id ASC").
		Find(&lists).Error
	if err != nil {
		log.Printf("Error fetching lists: %v", err)
		return []models.TodoList{}, fmt.Errorf("failed to fetch lists: %w", err)
	}

	return lists, nil
}

// DeleteTask removes the task if it exists. Deleting a missing task succeeds.
func (s *TodoServiceImpl) DeleteTask(ctx context.Context, db *gorm.DB, taskID uuid.UUID) error {
	if err := db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&models.Task{}).Error; err != nil {
		log.Printf("Error deleting task: %v", err)
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// DeleteListCascade deletes the list's tasks and then the list itself.
func (s *TodoServiceImpl) DeleteListCascade(ctx context.Context, db *gorm.DB, listID uuid.UUID) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", listID).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("delete tasks: %w", err)
		}
		if err := tx.Where("list_id = ?", listID).Delete(&models.TodoList{}).Error; err != nil {
			return fmt.Errorf("delete list: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error deleting list: %v", err)
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return nil
}

// SetTaskCompletion overwrites the completion flag with the given value.
func (s *TodoServiceImpl) SetTaskCompletion(ctx context.Context, db *gorm.DB, taskID uuid.UUID, completed bool) error {
	err := db.WithContext(ctx).
		Model(&models.Task{}).
		Where("task_id = ?", taskID).
		Update("is_completed", completed).Error
	if err != nil {
		log.Printf("Error updating task status: %v", err)
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return nil
}
