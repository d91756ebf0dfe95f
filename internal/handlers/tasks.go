package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"todo-planner/internal/planner"
	"todo-planner/internal/services"
	"todo-planner/internal/session"
	"todo-planner/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

const (
	msgEmptyTitle  = "Please enter a to-do list title."
	msgPlanned     = "AI Agents have planned your tasks successfully!"
	msgSaveFailed  = "Failed to save tasks to database."
	msgListDeleted = "List deleted successfully."
	msgListError   = "Error deleting list."
	msgTaskDeleted = "Task deleted."
	msgTaskError   = "Error deleting task."
	dashboardPath  = "/dashboard"
)

// Planner turns a list title into the steps stored with the new list.
type Planner interface {
	Decompose(ctx context.Context, title string) planner.Plan
}

type TodoHandler struct {
	db          *gorm.DB
	todoService services.TodoService
	planner     Planner
	sessions    *session.Manager
}

func NewTodoHandler(db *gorm.DB, todoService services.TodoService, planner Planner, sessions *session.Manager) *TodoHandler {
	return &TodoHandler{db: db, todoService: todoService, planner: planner, sessions: sessions}
}

func (h *TodoHandler) Dashboard(c *gin.Context) {
	id, _ := session.FromContext(c)

	// A failed read renders an empty dashboard; the service already logged it.
	lists, _ := h.todoService.ListUserListsWithTasks(c.Request.Context(), h.db, id.UserID)

	c.HTML(http.StatusOK, web.DashboardPage, gin.H{
		"UserName": id.UserName,
		"Lists":    lists,
		"Flash":    popFlash(c, h.sessions),
	})
}

func (h *TodoHandler) CreateList(c *gin.Context) {
	id, _ := session.FromContext(c)

	title := c.PostForm("list_title")
	if strings.TrimSpace(title) == "" {
		h.redirectWithFlash(c, session.FlashWarning, msgEmptyTitle)
		return
	}

	plan := h.planner.Decompose(c.Request.Context(), title)

	listID, tasks, err := newListIDs(plan.Steps)
	if err == nil {
		err = h.todoService.CreateListWithTasks(c.Request.Context(), h.db, id.UserID, listID, title, tasks)
	}
	if err != nil {
		log.Printf("Error creating list %q for user %s: %v", title, id.UserID, err)
		h.redirectWithFlash(c, session.FlashDanger, msgSaveFailed)
		return
	}

	h.redirectWithFlash(c, session.FlashSuccess, msgPlanned)
}

func (h *TodoHandler) DeleteList(c *gin.Context) {
	listID := uuid.FromStringOrNil(c.Param("list_id"))

	if err := h.todoService.DeleteListCascade(c.Request.Context(), h.db, listID); err != nil {
		h.redirectWithFlash(c, session.FlashDanger, msgListError)
		return
	}
	h.redirectWithFlash(c, session.FlashSuccess, msgListDeleted)
}

func (h *TodoHandler) DeleteTask(c *gin.Context) {
	taskID := uuid.FromStringOrNil(c.Param("task_id"))

	if err := h.todoService.DeleteTask(c.Request.Context(), h.db, taskID); err != nil {
		h.redirectWithFlash(c, session.FlashDanger, msgTaskError)
		return
	}
	h.redirectWithFlash(c, session.FlashSuccess, msgTaskDeleted)
}

// ToggleTask stores the submitted completion state. Only the literal
// "true" marks a task complete.
func (h *TodoHandler) ToggleTask(c *gin.Context) {
	taskID := uuid.FromStringOrNil(c.Param("task_id"))
	completed := c.PostForm("is_completed") == "true"

	_ = h.todoService.SetTaskCompletion(c.Request.Context(), h.db, taskID, completed)

	c.Redirect(http.StatusFound, dashboardPath)
}

func (h *TodoHandler) redirectWithFlash(c *gin.Context, category, message string) {
	h.sessions.SetFlash(c, category, message)
	c.Redirect(http.StatusFound, dashboardPath)
}

func newListIDs(steps []string) (uuid.UUID, []services.NewTask, error) {
	listID, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to generate list ID: %w", err)
	}

	tasks := make([]services.NewTask, 0, len(steps))
	for _, step := range steps {
		taskID, err := uuid.NewV4()
		if err != nil {
			return uuid.Nil, nil, fmt.Errorf("failed to generate task ID: %w", err)
		}
		tasks = append(tasks, services.NewTask{TaskID: taskID, Description: step})
	}

	return listID, tasks, nil
}
