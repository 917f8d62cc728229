package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"campus-election-backend/auth"
	"campus-election-backend/cache"
	"campus-election-backend/config"
	"campus-election-backend/handlers"
	"campus-election-backend/models"
	"campus-election-backend/repository"
	"campus-election-backend/routes"
	"campus-election-backend/service"
	"campus-election-backend/summary"
	"campus-election-backend/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *auth.TokenManager

	president *models.Position
	secretary *models.Position
	ann       *models.Candidate
	ben       *models.Candidate
	cat       *models.Candidate

	student *models.User
	staff   *models.User
}

func setupTestEnvironment(t *testing.T, limits config.RateLimitConfig) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	results := cache.NewResultsCache(client, time.Minute)
	electionRepo := repository.NewElectionRepository(db)
	tokens := auth.NewTokenManager("test-secret", time.Hour, 24*time.Hour)

	env := &testEnv{db: db, tokens: tokens}
	env.router = routes.SetupRouter(routes.Dependencies{
		DB:             db,
		Auth:           service.NewAuthService(repository.NewUserRepository(db), tokens, results),
		Votes:          service.NewVoteService(electionRepo, cache.NewLockService(client), results),
		Results:        service.NewResultsService(electionRepo, results),
		Admin:          service.NewAdminService(electionRepo, results),
		Generator:      summary.NewGenerator(nil, "test-model", time.Second),
		RateLimiter:    handlers.NewRateLimiter(limits),
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	env.president = testutil.CreatePosition(t, db, "President", 1, true)
	env.secretary = testutil.CreatePosition(t, db, "Secretary", 2, true)
	env.ann = testutil.CreateCandidate(t, db, env.president, "Ann", true)
	env.ben = testutil.CreateCandidate(t, db, env.president, "Ben", true)
	env.cat = testutil.CreateCandidate(t, db, env.secretary, "Cat", true)
	env.student = testutil.CreateUser(t, db, "2024001", false)
	env.staff = testutil.CreateUser(t, db, "2024999", true)
	return env
}

func (e *testEnv) token(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := e.tokens.IssueAccess(u.ID, u.Username)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.RemoteAddr = "198.51.100.4:4000"

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

var noLimits = config.RateLimitConfig{Enabled: false}

