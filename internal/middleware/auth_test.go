package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careflow/booking-api/internal/utils"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(roles ...string) *gin.Engine {
	r := gin.New()
	grp := r.Group("/", Auth(testSecret))
	if len(roles) > 0 {
		grp.Use(RequireRoles(roles...))
	}
	grp.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": c.GetString(UserIDContextKey),
			"role":   c.GetString(UserRoleContextKey),
		})
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader(t *testing.T) {
	w := get(newAuthRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	w := get(newAuthRouter(), "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_WrongSecret(t *testing.T) {
	token, err := utils.GenerateJWT([]byte("other-secret"), "u1", "patient")
	require.NoError(t, err)

	w := get(newAuthRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ValidTokenSetsIdentity(t *testing.T) {
	token, err := utils.GenerateJWT([]byte(testSecret), "u1", "patient")
	require.NoError(t, err)

	w := get(newAuthRouter(), token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":"u1"`)
	assert.Contains(t, w.Body.String(), `"role":"patient"`)
}

func TestRequireRoles(t *testing.T) {
	staffToken, err := utils.GenerateJWT([]byte(testSecret), "u1", "staff")
	require.NoError(t, err)
	patientToken, err := utils.GenerateJWT([]byte(testSecret), "u2", "patient")
	require.NoError(t, err)

	r := newAuthRouter("provider", "staff")

	assert.Equal(t, http.StatusOK, get(r, staffToken).Code)
	assert.Equal(t, http.StatusForbidden, get(r, patientToken).Code)
}
