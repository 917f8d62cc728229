package routes

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"campus-election-backend/api"
	"campus-election-backend/handlers"
	"campus-election-backend/service"
	"campus-election-backend/summary"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Server wraps the HTTP server so main can shut it down.
type Server struct {
	*http.Server
}

// Dependencies are the wired services the router exposes.
type Dependencies struct {
	DB          *gorm.DB
	Auth        service.AuthService
	Votes       service.VoteService
	Results     service.ResultsService
	Admin       service.AdminService
	Generator   *summary.Generator
	RateLimiter *handlers.RateLimiter

	AllowedOrigins []string
}

// SetupRouter builds the gin engine with middleware and every route.
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.Default()
	router.Use(handlers.RequestID())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", handlers.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", handlers.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authController := api.NewAuthController(deps.Auth)
	electionController := api.NewElectionController(deps.Results)
	voteController := api.NewVoteController(deps.Votes)
	aiController := api.NewAIController(deps.Results, deps.Generator)
	adminController := api.NewAdminController(deps.Admin)
	health := handlers.NewHealthHandler(deps.DB)

	apiGroup := router.Group("/api")
	{
		// only the credential endpoints are public, and they are rate limited
		public := apiGroup.Group("/auth", deps.RateLimiter.Middleware())

		protected := apiGroup.Group("", handlers.AuthMiddleware(deps.Auth))
		protected.GET("/health", health.HealthCheck)

		authController.RegisterRoutes(public, protected.Group("/auth"))
		electionController.RegisterRoutes(protected)
		voteController.RegisterRoutes(protected)
		aiController.RegisterRoutes(protected)

		admin := protected.Group("/admin", handlers.RequireStaff())
		{
			adminController.RegisterRoutes(admin)
			admin.GET("/status", health.SystemStatus)
			if deps.RateLimiter != nil {
				admin.GET("/ratelimit/stats", deps.RateLimiter.GetRateLimiterStats)
			}
		}
	}

	return router
}

// StartServer starts listening in the background and returns the server.
func StartServer(router *gin.Engine, port string) *Server {
	addr := ":" + port

	srv := &Server{
		&http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	return srv
}
