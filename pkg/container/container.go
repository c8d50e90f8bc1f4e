package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"harvest-backend/internal/config"
	infraCache "harvest-backend/internal/infrastructure/cache"
	"harvest-backend/internal/infrastructure/database"
	"harvest-backend/pkg/cache"
	"harvest-backend/pkg/jwt"
	"harvest-backend/pkg/keylock"

	"harvest-backend/internal/domains/cooperative"
	cooperativeHandler "harvest-backend/internal/domains/cooperative/handler"
	cooperativeRepo "harvest-backend/internal/domains/cooperative/repository"
	cooperativeService "harvest-backend/internal/domains/cooperative/service"
	"harvest-backend/internal/domains/farmer"
	farmerHandler "harvest-backend/internal/domains/farmer/handler"
	farmerRepo "harvest-backend/internal/domains/farmer/repository"
	farmerService "harvest-backend/internal/domains/farmer/service"
	"harvest-backend/internal/domains/project"
	projectHandler "harvest-backend/internal/domains/project/handler"
	projectRepo "harvest-backend/internal/domains/project/repository"
	projectService "harvest-backend/internal/domains/project/service"
	"harvest-backend/internal/domains/user"
	userHandler "harvest-backend/internal/domains/user/handler"
	userRepo "harvest-backend/internal/domains/user/repository"
	userService "harvest-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client
	FarmerLocks *keylock.KeyLock

	// Repositories
	UserRepo        user.Repository
	CooperativeRepo cooperative.Repository
	FarmerRepo      farmer.Repository
	ProjectRepo     project.Repository

	// Services
	AuthService        user.Service
	CooperativeService cooperative.Service
	FarmerService      farmer.Service
	ProjectService     project.Service

	// Handlers
	AuthHandler    *userHandler.AuthHandler
	AdminHandler   *cooperativeHandler.AdminHandler
	FarmerHandler  *farmerHandler.FarmerHandler
	ProjectHandler *projectHandler.ProjectHandler
}

// NewContainer builds the whole graph in dependency order: config,
// infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	log.Println("🗄️  Connecting to PostgreSQL...")
	db := database.NewPostgresDB(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	log.Println("🔴 Connecting to Redis...")
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(context.Background()); err != nil {
		// Redis failure is not fatal: statistics fall back to the database.
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	c.FarmerLocks = keylock.New()

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool()

	c.UserRepo = userRepo.NewRepository(pool)
	c.CooperativeRepo = cooperativeRepo.NewRepository(pool)
	c.FarmerRepo = farmerRepo.NewRepository(pool)
	c.ProjectRepo = projectRepo.NewRepository(pool)
}

func (c *Container) initServices() {
	c.AuthService = userService.NewAuthService(
		c.UserRepo,
		c.CooperativeRepo,
		c.JWTManager,
		c.AsynqClient,
	)
	c.CooperativeService = cooperativeService.NewCooperativeService(
		c.CooperativeRepo,
		c.AsynqClient,
	)
	c.FarmerService = farmerService.NewFarmerService(
		c.FarmerRepo,
		c.ProjectRepo,
		c.FarmerLocks,
		c.Cache,
		c.Config.Farmer,
	)
	c.ProjectService = projectService.NewProjectService(
		c.ProjectRepo,
		c.FarmerRepo,
		c.FarmerLocks,
		c.Cache,
	)
}

func (c *Container) initHandlers() {
	c.AuthHandler = userHandler.NewAuthHandler(c.AuthService)
	c.AdminHandler = cooperativeHandler.NewAdminHandler(c.CooperativeService)
	c.FarmerHandler = farmerHandler.NewFarmerHandler(c.FarmerService)
	c.ProjectHandler = projectHandler.NewProjectHandler(c.ProjectService)
}

// Close releases infrastructure connections.
func (c *Container) Close() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("⚠️  Failed to close redis: %v", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
