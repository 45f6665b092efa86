// Package server wires the reference backend: a gin implementation of the REST
// contract the API client talks to.
package server

import (
	"context"
	"time"

	"github.com/abroadmap/abroadmap/config"
	"github.com/abroadmap/abroadmap/internal/handlers"
	"github.com/abroadmap/abroadmap/internal/middleware"
	"github.com/abroadmap/abroadmap/internal/repository"
	"github.com/abroadmap/abroadmap/internal/services"
	"github.com/abroadmap/abroadmap/pkg/jwt"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 2 << 20

// Options tune the router for tests and local runs
type Options struct {
	// BcryptCost overrides the password hashing cost; zero uses the bcrypt default
	BcryptCost int
	// AuthRate and AuthBurst bound credential requests per client IP
	AuthRate  float64
	AuthBurst int
}

// DefaultOptions returns the production settings
func DefaultOptions() Options {
	return Options{
		AuthRate:  1,
		AuthBurst: 10,
	}
}

// NewRouter builds the gin engine serving every route under /api.
// The context bounds background work such as rate limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, store *repository.MemoryStore, opts Options) *gin.Engine {
	handlers.RegisterFieldNames()

	tokens := jwt.NewTokenManager(cfg.Session.Secret, cfg.Session.Issuer, cfg.Session.TTLHours)
	sessions := middleware.NewSessionStore(tokens, cfg.Session.CookieDomain, cfg.Session.CookieSecure)

	authService := services.NewAuthService(store, store, opts.BcryptCost)
	profileService := services.NewProfileService(store, store)
	programService := services.NewProgramService(store, store)
	favoriteService := services.NewFavoriteService(store)
	reviewService := services.NewReviewService(store, store, store)

	authHandler := handlers.NewAuthHandler(authService, sessions)
	profileHandler := handlers.NewProfileHandler(profileService)
	programHandler := handlers.NewProgramHandler(programService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	healthHandler := handlers.NewHealthHandler(func() bool {
		programs, err := store.ListPrograms(ctx)
		return err == nil && len(programs) > 0
	})

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(sessions.Middleware())
	router.Use(middleware.ObservabilityMiddleware())

	allowedOrigins := append([]string(nil), cfg.Server.AllowedOrigins...)
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173", "http://127.0.0.1:3000")
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.CSRFHeaderName, "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // session and csrf cookies
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.CSRFMiddleware(cfg.Session.CookieDomain, cfg.Session.CookieSecure))
	router.Use(middleware.BodySizeLimitMiddleware(maxBodyBytes))

	if opts.AuthBurst <= 0 {
		opts.AuthRate, opts.AuthBurst = DefaultOptions().AuthRate, DefaultOptions().AuthBurst
	}
	authLimiter := middleware.NewRateLimiter(ctx, rate.Limit(opts.AuthRate), opts.AuthBurst)

	api := router.Group("/api")
	api.GET("/healthcheck", healthHandler.Healthcheck)
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api.GET("/programs/", programHandler.ListPrograms)
	api.GET("/programs/:id/reviews/", reviewHandler.ListReviews)
	api.POST("/programs/:id/reviews/add/", middleware.RequireAlumni(), reviewHandler.AddReview)
	api.DELETE("/programs/:id/reviews/:review_id/", middleware.RequireAlumni(), reviewHandler.DeleteReview)

	auth := api.Group("/auth")
	auth.POST("/signup/", authLimiter.Middleware(), authHandler.Signup)
	auth.POST("/login/", authLimiter.Middleware(), authHandler.Login)
	auth.POST("/logout/", authHandler.Logout)
	auth.GET("/profile/", profileHandler.GetProfile)
	auth.PATCH("/profile/", profileHandler.UpdateProfile)

	favorites := auth.Group("/favorites", middleware.RequireStudent())
	favorites.GET("/", favoriteHandler.ListFavorites)
	favorites.POST("/", favoriteHandler.AddFavorite)
	favorites.DELETE("/:id/", favoriteHandler.RemoveFavorite)
	favorites.GET("/:id/check/", favoriteHandler.CheckFavorite)

	alumni := auth.Group("/alumni")
	alumni.POST("/signup/", authLimiter.Middleware(), authHandler.AlumniSignup)
	alumni.POST("/login/", authLimiter.Middleware(), authHandler.AlumniLogin)
	alumni.POST("/logout/", authHandler.AlumniLogout)
	alumni.GET("/profile/", profileHandler.GetAlumniProfile)
	alumni.GET("/by-program/:id/", programHandler.ListAlumniByProgram)

	return router
}
