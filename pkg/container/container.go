package container

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"kinex-backend/internal/config"
	infraCache "kinex-backend/internal/infrastructure/cache"
	"kinex-backend/internal/infrastructure/database"
	"kinex-backend/internal/infrastructure/queue"
	"kinex-backend/internal/infrastructure/storage"
	"kinex-backend/pkg/cache"
	"kinex-backend/pkg/jwt"

	"kinex-backend/internal/domains/user"
	userHandler "kinex-backend/internal/domains/user/handler"
	userRepo "kinex-backend/internal/domains/user/repository"
	userService "kinex-backend/internal/domains/user/service"

	"kinex-backend/internal/domains/project"
	projectHandler "kinex-backend/internal/domains/project/handler"
	projectRepo "kinex-backend/internal/domains/project/repository"
	projectService "kinex-backend/internal/domains/project/service"

	"kinex-backend/internal/domains/upload"
	uploadHandler "kinex-backend/internal/domains/upload/handler"
	uploadRepo "kinex-backend/internal/domains/upload/repository"
	uploadService "kinex-backend/internal/domains/upload/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependencies của API server.
// Thành phần optional (Cache, Storage, Cleaner) là nil khi chưa cấu hình.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB // DB_DRIVER=postgres
	SQLite     *sql.DB              // DB_DRIVER=sqlite
	Cache      cache.Cache
	Storage    *storage.S3Storage
	Cleaner    *queue.UploadCleaner
	JWTManager *jwt.Manager
	Metrics    *prometheus.Registry

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	UserRepo    user.Repository
	ProjectRepo project.Repository
	UploadRepo  upload.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	UserService    user.Service
	ProjectService project.Service
	UploadService  upload.Service

	// ========================================
	// HANDLER LAYER
	// ========================================
	UserHandler    *userHandler.UserHandler
	ProjectHandler *projectHandler.ProjectHandler
	UploadHandler  *uploadHandler.UploadHandler
}

// ========================================
// CONSTRUCTOR
// ========================================

// NewContainer load config từ env rồi build dependency graph
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return Build(context.Background(), cfg)
}

// Build khởi tạo theo thứ tự:
// 1. Database  2. Cache  3. Storage + queue  4. Repositories  5. Services  6. Handlers
func Build(ctx context.Context, cfg *config.Config) (*Container, error) {
	log.Info().Str("env", cfg.App.Environment).Msg("Initializing DI container")

	c := &Container{
		Config:     cfg,
		JWTManager: jwt.NewManager(cfg.JWT.Secret, jwt.DefaultExpiry),
		Metrics:    prometheus.NewRegistry(),
	}
	c.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// STEP 1: DATABASE
	if err := c.initDatabase(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	// STEP 2: CACHE (không critical)
	c.initCache(ctx)

	// STEP 3: STORAGE + UPLOAD CLEANUP QUEUE (không critical)
	c.initStorage(ctx)

	// STEP 4-6
	if err := c.initRepositories(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}
	if err := c.initServices(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init services: %w", err)
	}
	c.initHandlers()

	log.Info().
		Str("db_driver", cfg.Database.Driver).
		Bool("cache", c.Cache != nil).
		Bool("storage", c.Storage != nil).
		Bool("cleanup_queue", c.Cleaner != nil).
		Msg("DI container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initDatabase(ctx context.Context) error {
	switch c.Config.Database.Driver {
	case "sqlite":
		db, err := database.OpenSQLite(c.Config.Database.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite: %w", err)
		}
		c.SQLite = db
		log.Info().Str("path", c.Config.Database.SQLitePath).Msg("SQLite ready")
		return nil

	default:
		dbConfig, err := c.Config.LoadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}

		db := database.NewPostgresDB(dbConfig)
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		if err := db.Connect(connectCtx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db

		if err := db.Migrate(connectCtx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		return nil
	}
}

func (c *Container) initCache(ctx context.Context) {
	if !c.Config.Redis.Enabled {
		return
	}

	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rc.Connect(pingCtx); err != nil {
		// Redis failure không critical: chạy không cache, không cleanup queue
		log.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		_ = rc.Close()
		return
	}
	c.Cache = rc
}

func (c *Container) initStorage(ctx context.Context) {
	if !c.Config.S3.Configured() {
		log.Warn().Msg("S3 storage not configured, upload URLs disabled")
		return
	}

	s3, err := storage.NewS3Storage(c.Config.S3)
	if err != nil {
		log.Warn().Err(err).Msg("S3 storage init failed, upload URLs disabled")
		return
	}
	c.Storage = s3

	if c.Config.S3.EnsureBucket {
		ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := s3.EnsureBucket(ensureCtx); err != nil {
			log.Warn().Err(err).Str("bucket", c.Config.S3.Bucket).Msg("Failed to ensure S3 bucket")
		}
	}

	// Cleanup queue cần cả Redis lẫn storage
	if c.Cache != nil {
		c.Cleaner = queue.NewUploadCleaner(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB, s3)
	}
}

func (c *Container) initRepositories() error {
	switch {
	case c.SQLite != nil:
		c.UserRepo = userRepo.NewSQLiteRepository(c.SQLite)
		c.ProjectRepo = projectRepo.NewSQLiteRepository(c.SQLite)
		c.UploadRepo = uploadRepo.NewSQLiteRepository(c.SQLite)
	case c.DB != nil:
		c.UserRepo = userRepo.NewPostgresRepository(c.DB.Pool)
		c.ProjectRepo = projectRepo.NewPostgresRepository(c.DB.Pool)
		c.UploadRepo = uploadRepo.NewPostgresRepository(c.DB.Pool)
	default:
		return fmt.Errorf("no database initialized")
	}

	// Cache-aside cho /me (FindByID)
	if c.Cache != nil {
		c.UserRepo = userRepo.NewCachedRepository(c.UserRepo, c.Cache, c.Config.Redis.UserTTL)
	}
	return nil
}

func (c *Container) initServices() error {
	svc, err := userService.NewUserService(c.UserRepo, c.JWTManager, userService.DefaultBcryptCost)
	if err != nil {
		return err
	}
	c.UserService = svc

	// interface nil thật sự khi thiếu cleaner/storage (tránh typed-nil)
	var cleaner project.UploadCleaner
	if c.Cleaner != nil {
		cleaner = c.Cleaner
	}
	c.ProjectService = projectService.NewProjectService(c.ProjectRepo, c.UploadRepo, cleaner)

	var presigner upload.Presigner
	if c.Storage != nil {
		presigner = c.Storage
	}
	c.UploadService = uploadService.NewUploadService(presigner, c.UploadRepo)
	return nil
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ProjectHandler = projectHandler.NewProjectHandler(c.ProjectService)
	c.UploadHandler = uploadHandler.NewUploadHandler(c.UploadService)
}

// ========================================
// HELPER METHODS
// ========================================

// PingDB dùng cho /health
func (c *Container) PingDB(ctx context.Context) error {
	switch {
	case c.SQLite != nil:
		return c.SQLite.PingContext(ctx)
	case c.DB != nil:
		return c.DB.HealthCheck(ctx)
	}
	return fmt.Errorf("no database initialized")
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	if c.Cleaner != nil {
		if err := c.Cleaner.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close queue client")
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}
	if c.SQLite != nil {
		if err := c.SQLite.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close SQLite")
		}
	}

	log.Info().Msg("Container cleanup completed")
}
