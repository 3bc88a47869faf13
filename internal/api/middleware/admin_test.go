package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/ai798/checkin_go_server/internal/model"
	"github.com/ai798/checkin_go_server/internal/pkg/response"
	"github.com/ai798/checkin_go_server/internal/repository"
	"github.com/ai798/checkin_go_server/internal/testutil"
)

func setupAdminTest(t *testing.T) (*repository.UserRepository, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return userRepo, db, cleanup
}

func adminTestRouter(userRepo *repository.UserRepository, userID int64) *gin.Engine {
	router := gin.New()
	if userID > 0 {
		router.Use(func(c *gin.Context) {
			c.Set(UserIDKey, userID)
			c.Next()
		})
	}
	router.Use(AdminOnly(userRepo))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestAdminOnly_AdminPasses(t *testing.T) {
	userRepo, db, cleanup := setupAdminTest(t)
	defer cleanup()

	admin := testutil.TestUser(t, db, testutil.WithRole(model.RoleAdmin))
	router := adminTestRouter(userRepo, admin.ID)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestAdminOnly_MemberRejected(t *testing.T) {
	userRepo, db, cleanup := setupAdminTest(t)
	defer cleanup()

	member := testutil.TestUser(t, db)
	router := adminTestRouter(userRepo, member.ID)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodePermissionDenied, resp.Code)
}

func TestAdminOnly_NoUserID(t *testing.T) {
	userRepo, _, cleanup := setupAdminTest(t)
	defer cleanup()

	router := adminTestRouter(userRepo, 0)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAdminOnly_UserNotFound(t *testing.T) {
	userRepo, _, cleanup := setupAdminTest(t)
	defer cleanup()

	router := adminTestRouter(userRepo, 99999)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}
