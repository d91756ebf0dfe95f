package handlers

import (
	"errors"
	"log"
	"net/http"

	"todo-planner/internal/services"
	"todo-planner/internal/session"
	"todo-planner/internal/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	msgInvalidName   = "Please enter a valid name."
	msgUserDBError   = "Database error creating user."
	msgSessionFailed = "Could not start your session. Please try again."
)

type AuthHandler struct {
	db          *gorm.DB
	userService services.UserService
	sessions    *session.Manager
}

func NewAuthHandler(db *gorm.DB, userService services.UserService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{db: db, userService: userService, sessions: sessions}
}

// Index shows the login form, or sends signed-in users to their dashboard.
func (h *AuthHandler) Index(c *gin.Context) {
	if _, ok := session.FromContext(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	c.HTML(http.StatusOK, web.LoginPage, gin.H{
		"Flash": popFlash(c, h.sessions),
	})
}

// Login signs the visitor in under the submitted name, creating the user on
// first use.
func (h *AuthHandler) Login(c *gin.Context) {
	user, err := h.userService.Login(c.Request.Context(), h.db, c.PostForm("user_name"))
	if err != nil {
		if errors.Is(err, services.ErrEmptyUserName) {
			h.sessions.SetFlash(c, session.FlashDanger, msgInvalidName)
		} else {
			h.sessions.SetFlash(c, session.FlashDanger, msgUserDBError)
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	if err := h.sessions.Start(c, session.Identity{UserID: user.UserID, UserName: user.UserName}); err != nil {
		log.Printf("Error starting session for %s: %v", user.UserID, err)
		h.sessions.SetFlash(c, session.FlashDanger, msgSessionFailed)
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	c.Redirect(http.StatusFound, "/")
}

func popFlash(c *gin.Context, sessions *session.Manager) *session.Flash {
	flash, ok := sessions.PopFlash(c)
	if !ok {
		return nil
	}
	return &flash
}
