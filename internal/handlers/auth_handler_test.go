package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careflow/booking-api/internal/models"
	"github.com/careflow/booking-api/internal/utils"
)

func TestRegisterUser(t *testing.T) {
	env := setupTest(t)

	w := env.do(t, http.MethodPost, "/auth/register", gin.H{
		"username": "newpatient",
		"email":    "new@example.com",
		"password": "sup3rsecret",
		"phone":    "+15550400",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.False(t, got.ID.IsZero())
	assert.Equal(t, "newpatient", got.Username)
	assert.Equal(t, "patient", got.Role, "role defaults to patient")

	// Hash, not the plain password, is stored.
	stored, err := env.users.FindUserByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "sup3rsecret", stored.Password)
	assert.True(t, utils.CheckPasswordHash("sup3rsecret", stored.Password))
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	env := setupTest(t)

	w := env.do(t, http.MethodPost, "/auth/register", gin.H{
		"username": "imposter",
		"email":    env.patient.Email,
		"password": "sup3rsecret",
		"phone":    "+15550400",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterUser_ShortPassword(t *testing.T) {
	env := setupTest(t)

	w := env.do(t, http.MethodPost, "/auth/register", gin.H{
		"username": "newpatient",
		"email":    "new@example.com",
		"password": "short",
		"phone":    "+15550400",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	env := setupTest(t)

	hash, err := utils.HashPassword("sup3rsecret")
	require.NoError(t, err)
	user := models.User{
		Username: "carol",
		Email:    "carol@example.com",
		Password: hash,
		Role:     "patient",
		Phone:    "+15550300",
	}
	require.NoError(t, env.users.CreateUser(context.Background(), &user))

	w := env.do(t, http.MethodPost, "/auth/login", gin.H{
		"email":    "carol@example.com",
		"password": "sup3rsecret",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		Token   string `json:"token"`
		Session struct {
			IsAuthenticated bool           `json:"isAuthenticated"`
			User            map[string]any `json:"user"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	assert.NotEmpty(t, got.Token)
	claims, err := utils.ValidateJWT([]byte("test-secret"), got.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "patient", claims.Role)

	assert.True(t, got.Session.IsAuthenticated)
	assert.Equal(t, "carol", got.Session.User["username"])
}

func TestLogin_WrongPassword(t *testing.T) {
	env := setupTest(t)

	hash, err := utils.HashPassword("sup3rsecret")
	require.NoError(t, err)
	user := models.User{Username: "carol", Email: "carol@example.com", Password: hash, Role: "patient"}
	require.NoError(t, env.users.CreateUser(context.Background(), &user))

	w := env.do(t, http.MethodPost, "/auth/login", gin.H{
		"email":    "carol@example.com",
		"password": "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := setupTest(t)

	w := env.do(t, http.MethodPost, "/auth/login", gin.H{
		"email":    "ghost@example.com",
		"password": "whatever123",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUser(t *testing.T) {
	env := setupTest(t)

	w := env.do(t, http.MethodGet, "/users/"+env.provider.ID.Hex(), nil)

	require.Equal(t, http.StatusOK, w.Code)

	var got models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "drbob", got.Username)
	assert.Empty(t, got.Password, "password never leaves the API")
}

func TestGetUser_NotFound(t *testing.T) {
	env := setupTest(t)

	w := env.do(t, http.MethodGet, "/users/000000000000000000000000", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
