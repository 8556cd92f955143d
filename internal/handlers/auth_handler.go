package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careflow/booking-api/internal/authstate"
	"github.com/careflow/booking-api/internal/common"
	"github.com/careflow/booking-api/internal/models"
	"github.com/careflow/booking-api/internal/utils"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=patient provider staff"`
	Phone    string `json:"phone" binding:"required"`
}

func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	role := req.Role
	if role == "" {
		role = "patient"
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     role,
		Phone:    req.Phone,
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()
	if err := h.Users.CreateUser(ctx, &user); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials, mints a token and returns the session auth state
// the client starts from after a successful sign-in.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	user, err := h.Users.FindUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// An unknown email reads the same as a wrong password.
			c.Error(common.ErrUnauthorized.WithMsg("Invalid credentials"))
		} else {
			c.Error(err)
		}
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		c.Error(common.ErrUnauthorized.WithMsg("Invalid credentials"))
		return
	}

	token, err := utils.GenerateJWT([]byte(h.JWTSecret), user.ID.Hex(), user.Role)
	if err != nil {
		c.Error(err)
		return
	}

	session := authstate.Reduce(authstate.Initial(), authstate.Action{
		Type: authstate.ActionSetCurrentUser,
		Payload: map[string]any{
			"id":       user.ID.Hex(),
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})

	c.JSON(http.StatusOK, gin.H{"token": token, "session": session})
}

// GetUser is the user-directory read surface.
func (h *Handler) GetUser(c *gin.Context) {
	id, err := parseObjectID(c.Param("id"), "user")
	if err != nil {
		c.Error(err)
		return
	}

	ctx, cancel := h.opCtx(c)
	defer cancel()

	user, err := h.Users.FindUserByID(ctx, id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}
