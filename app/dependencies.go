// Package app is the central wiring point: it builds every repository,
// service, handler and middleware the router needs from one Config.
package app

import (
	"context"
	"fmt"

	"github.com/resumelane/resumelane/auth"
	"github.com/resumelane/resumelane/config"
	"github.com/resumelane/resumelane/handlers"
	"github.com/resumelane/resumelane/identity"
	"github.com/resumelane/resumelane/middleware"
	"github.com/resumelane/resumelane/ratelimit"
	"github.com/resumelane/resumelane/repositories"
	"github.com/resumelane/resumelane/repositories/postgres"
	"github.com/resumelane/resumelane/services/follow"
	"github.com/resumelane/resumelane/services/profile"
	"github.com/resumelane/resumelane/services/resume"
	"github.com/resumelane/resumelane/services/review"
	"github.com/resumelane/resumelane/services/reviewer"
	"github.com/resumelane/resumelane/session"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	// Session resolution
	Resolver *session.Resolver

	// Services
	ProfileService  *profile.Service
	ReviewerService *reviewer.Service
	ResumeService   *resume.Service
	ReviewService   *review.Service
	FollowService   *follow.Service

	// Handlers
	AuthHandler     *auth.Handler
	ProfileHandler  *handlers.ProfileHandler
	ReviewerHandler *handlers.ReviewerHandler
	ResumeHandler   *handlers.ResumeHandler
	ReviewHandler   *handlers.ReviewHandler
	FollowHandler   *handlers.FollowHandler
	HealthHandler   *handlers.HealthHandler

	// Middleware
	AuthMiddleware      *middleware.AuthMiddleware
	RouteGuard          *middleware.RouteGuard
	RateLimitMiddleware *middleware.RateLimitMiddleware

	limiter *ratelimit.KeyedLimiter
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initServices(cfg)
	deps.initHTTP(cfg)

	logger.Info("all dependencies initialized")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection, factory and repositories
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	if err := d.DB.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Repos = factory.NewRepositories()
	d.TxManager = factory.GetTransactionManager()

	d.Logger.Info("database connection established")
	return nil
}

// initServices builds the session resolver and the domain services
func (d *Dependencies) initServices(cfg *config.Config) {
	d.Resolver = session.NewResolver(d.Repos.Profiles, d.Repos.Reviewers, cfg.Admin, d.Logger)

	d.ProfileService = profile.NewService(d.Repos.Profiles, d.Logger)
	d.ReviewerService = reviewer.NewService(
		d.Repos.Reviewers, d.Repos.Profiles, d.Repos.Experiences, d.TxManager, d.Logger)
	d.ResumeService = resume.NewService(d.Repos.Resumes, d.TxManager, d.Logger)
	d.ReviewService = review.NewService(
		d.Repos.Reviews, d.Repos.Resumes, d.Repos.Reviewers, d.TxManager, d.Logger)
	d.FollowService = follow.NewService(d.Repos.Follows, d.Repos.Reviewers, d.Logger)
}

// initHTTP builds the token validator, handlers and middleware
func (d *Dependencies) initHTTP(cfg *config.Config) {
	validator := identity.NewValidator(identity.Config{
		Issuer:      cfg.Identity.Issuer,
		ClientID:    cfg.Identity.ClientID,
		CacheTTL:    cfg.Identity.JWKSCacheTTL,
		HTTPTimeout: cfg.Identity.HTTPTimeout,
	})

	exchanger := auth.NewOAuthTokenExchanger(cfg.Identity)
	d.AuthHandler = auth.NewHandler(cfg.Identity, exchanger, validator, d.Logger)

	d.ProfileHandler = handlers.NewProfileHandler(d.ProfileService, d.Logger)
	d.ReviewerHandler = handlers.NewReviewerHandler(d.ReviewerService, d.Logger)
	d.ResumeHandler = handlers.NewResumeHandler(d.ResumeService, d.Logger)
	d.ReviewHandler = handlers.NewReviewHandler(d.ReviewService, d.Logger)
	d.FollowHandler = handlers.NewFollowHandler(d.FollowService, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB.DB, d.Logger) // embedded *sql.DB

	d.AuthMiddleware = middleware.NewAuthMiddleware(validator, d.Resolver, d.Logger)
	d.RouteGuard = middleware.NewRouteGuard(d.Logger)

	if cfg.RateLimit.Enabled {
		d.limiter = ratelimit.NewKeyedLimiter(
			cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL, d.Logger)
		d.RateLimitMiddleware = middleware.NewRateLimitMiddleware(d.limiter, d.Logger)
	}
}

// Close releases all held resources
func (d *Dependencies) Close() error {
	if d.limiter != nil {
		d.limiter.Close()
	}
	if d.RepoFactory != nil {
		return d.RepoFactory.Close()
	}
	return nil
}
