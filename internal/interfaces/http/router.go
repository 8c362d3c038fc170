package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"portaria/internal/application/credential/usecases"
	"portaria/internal/infrastructure/config"
	"portaria/internal/infrastructure/enrollment"
	"portaria/internal/infrastructure/ratelimit"
	"portaria/internal/infrastructure/repository"
	"portaria/internal/interfaces/http/handlers"
	"portaria/internal/interfaces/http/middleware"
	"portaria/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	engine            *gin.Engine
	credentialHandler *handlers.CredentialHandler
	admissionHandler  *handlers.AdmissionHandler
	terminalLimiter   *middleware.TerminalRateLimiter
	allowedOrigins    []string
	logger            logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	credentialRepo := repository.NewCredentialRepository(db, log)
	sponsorDir := repository.NewSponsorDirectory(db, log)
	enroller := enrollment.NewHTTPCollaborator(&cfg.Enrollment, log)

	policy := usecases.IssuancePolicy{
		MaxWindowHours: cfg.Credential.MaxWindowHours,
		MinEntries:     cfg.Credential.MinEntries,
		MaxEntries:     cfg.Credential.MaxEntries,
		CodeLength:     cfg.Credential.CodeLength,
		CodeRetryLimit: cfg.Credential.CodeRetryLimit,
	}

	issueUC := usecases.NewIssueCredentialUseCase(credentialRepo, sponsorDir, enroller, policy, log)
	getUC := usecases.NewGetCredentialUseCase(credentialRepo, log)
	listActiveUC := usecases.NewListActiveCredentialsUseCase(credentialRepo, log)
	listEventsUC := usecases.NewListAccessEventsUseCase(credentialRepo, log)
	extendUC := usecases.NewExtendCredentialUseCase(credentialRepo, log)
	revokeUC := usecases.NewRevokeCredentialUseCase(credentialRepo, enroller, log)

	admissionTimeout := time.Duration(cfg.Admission.TimeoutSeconds) * time.Second
	attemptUC := usecases.NewAttemptAdmissionUseCase(credentialRepo, admissionTimeout, log)

	credentialHandler := handlers.NewCredentialHandler(
		issueUC, getUC, listActiveUC, listEventsUC, extendUC, revokeUC, log,
	)
	admissionHandler := handlers.NewAdmissionHandler(attemptUC, log)

	limiter := ratelimit.NewRedisRateLimiter(redisClient)
	terminalLimiter := middleware.NewTerminalRateLimiter(limiter, cfg.Admission.RateLimitPerMin, log)

	return &Router{
		engine:            engine,
		credentialHandler: credentialHandler,
		admissionHandler:  admissionHandler,
		terminalLimiter:   terminalLimiter,
		allowedOrigins:    cfg.Server.AllowedOrigins,
		logger:            log,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.allowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/health", r.credentialHandler.HealthCheck)

	credentials := r.engine.Group("/credentials")
	{
		credentials.POST("", r.credentialHandler.IssueCredential)
		credentials.GET("", r.credentialHandler.ListActiveCredentials)
		credentials.GET("/:id", r.credentialHandler.GetCredential)
		credentials.GET("/:id/events", r.credentialHandler.ListAccessEvents)
		credentials.POST("/:id/extend", r.credentialHandler.ExtendCredential)
		credentials.POST("/:id/revoke", r.credentialHandler.RevokeCredential)
	}

	admission := r.engine.Group("/admission")
	{
		admission.POST("/attempt", r.terminalLimiter.Limit(), r.admissionHandler.AttemptAdmission)
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
