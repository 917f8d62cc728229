package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-election-backend/config"
	"campus-election-backend/models"
	"campus-election-backend/service"
	"campus-election-backend/testutil"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// fakeAuthenticator accepts the tokens it knows about.
type fakeAuthenticator map[string]*models.User

func (f fakeAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if token == "orphan" {
		return nil, service.ErrUserNotFound
	}
	user, ok := f[token]
	if !ok {
		return nil, service.ErrInvalidToken
	}
	return user, nil
}

// SetupTestEnvironment builds a router with the middleware chain and a few
// probe routes on top of an in-memory database.
func SetupTestEnvironment(t *testing.T, limits config.RateLimitConfig) (*gin.Engine, *gorm.DB, *RateLimiter) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	student := testutil.CreateUser(t, db, "2024001", false)
	staff := testutil.CreateUser(t, db, "2024999", true)
	authn := fakeAuthenticator{"student-token": student, "staff-token": staff}
	limiter := NewRateLimiter(limits)
	health := NewHealthHandler(db)

	router := gin.New()
	router.Use(RequestID())

	api := router.Group("/api")
	api.POST("/auth/login", limiter.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	protected := api.Group("", AuthMiddleware(authn))
	protected.GET("/health", health.HealthCheck)

	admin := protected.Group("/admin", RequireStaff())
	admin.GET("/status", health.SystemStatus)
	admin.GET("/ratelimit/stats", limiter.GetRateLimiterStats)

	return router, db, limiter
}

func doRequest(router http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.RemoteAddr = "203.0.113.7:5555"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
