package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"bookreview-backend/internal/config"
	infraCache "bookreview-backend/internal/infrastructure/cache"
	"bookreview-backend/internal/infrastructure/database"
	"bookreview-backend/internal/infrastructure/queue"
	"bookreview-backend/internal/infrastructure/search"
	"bookreview-backend/internal/infrastructure/storage"
	"bookreview-backend/internal/invalidation"
	"bookreview-backend/pkg/cache"
	"bookreview-backend/pkg/jwt"

	authorHandler "bookreview-backend/internal/domains/author/handler"
	authorRepo "bookreview-backend/internal/domains/author/repository"
	authorService "bookreview-backend/internal/domains/author/service"
	bookHandler "bookreview-backend/internal/domains/book/handler"
	bookRepo "bookreview-backend/internal/domains/book/repository"
	bookService "bookreview-backend/internal/domains/book/service"
	reportHandler "bookreview-backend/internal/domains/report/handler"
	reportRepo "bookreview-backend/internal/domains/report/repository"
	reportService "bookreview-backend/internal/domains/report/service"
	reviewHandler "bookreview-backend/internal/domains/review/handler"
	reviewRepo "bookreview-backend/internal/domains/review/repository"
	reviewService "bookreview-backend/internal/domains/review/service"
	saleHandler "bookreview-backend/internal/domains/sale/handler"
	saleRepo "bookreview-backend/internal/domains/sale/repository"
	saleService "bookreview-backend/internal/domains/sale/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph.
// Built once per process; cmd/api, cmd/worker and catalogctl share it.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient // nil unless redis cache or queue is enabled
	Cache       cache.Cache
	Reads       *cache.ReadThrough
	SearchIndex search.Index
	AsynqClient *asynq.Client       // nil when the queue is disabled
	ObjectStore storage.ObjectStore // nil when minio is disabled
	Images      *storage.ImageProcessor
	JWTManager  *jwt.Manager
	Invalidator *invalidation.Invalidator

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	AuthorRepo authorRepo.AuthorRepository
	BookRepo   bookRepo.RepositoryInterface
	ReviewRepo reviewRepo.ReviewRepository
	SaleRepo   saleRepo.SaleRepository
	Aggregator reportRepo.Aggregator

	// ========================================
	// SERVICE LAYER
	// ========================================
	AuthorService authorService.ServiceInterface
	BookService   bookService.ServiceInterface
	ReviewService reviewService.ServiceInterface
	SaleService   saleService.ServiceInterface
	ReportService reportService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================
	AuthorHandler *authorHandler.AuthorHandler
	BookHandler   *bookHandler.Handler
	ReviewHandler *reviewHandler.ReviewHandler
	SaleHandler   *saleHandler.SaleHandler
	ReportHandler *reportHandler.ReportHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer initialises the graph in order:
// 1. Database (+ migrations)
// 2. Cache, queue, search index, object storage
// 3. Repositories
// 4. Services
// 5. Handlers
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	db := database.NewPostgresDB(config.LoadDatabaseConfig(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	if cfg.Database.AutoMigrate {
		if err := c.migrate(); err != nil {
			c.Cleanup()
			return nil, err
		}
	}

	// ========================================
	// STEP 2: INFRASTRUCTURE
	// ========================================
	if err := c.initInfrastructure(ctx); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init infrastructure: %w", err)
	}

	// ========================================
	// STEP 3-5: DOMAINS
	// ========================================
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	c.initServices()
	log.Println("✅ Services initialized")

	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) migrate() error {
	log.Println("📜 Applying migrations...")

	migrator, err := database.NewMigrator(c.DB.Config.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.Config

	// ----------------------------------------
	// REDIS (cache backend and/or queue broker)
	// ----------------------------------------
	if cfg.Cache.Backend == config.CacheBackendRedis || cfg.Queue.Enabled {
		c.Redis = infraCache.NewRedisClient(cfg.Redis)
	}

	// ----------------------------------------
	// CACHE
	// ----------------------------------------
	c.Cache = c.buildCache(ctx)
	c.Reads = cache.NewReadThrough(c.Cache)

	// ----------------------------------------
	// QUEUE
	// ----------------------------------------
	if cfg.Queue.Enabled {
		c.AsynqClient = queue.NewClient(RedisClientOpt(cfg.Redis))
		log.Println("✅ Asynq client ready")
	}

	// ----------------------------------------
	// SEARCH INDEX
	// ----------------------------------------
	c.SearchIndex = BuildSearchIndex(cfg, c.DB, c.AsynqClient)

	// ----------------------------------------
	// OBJECT STORAGE
	// ----------------------------------------
	c.Images = storage.NewImageProcessor()
	if cfg.MinIO.Enabled {
		store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			// Image upload is optional, the catalog works without it
			log.Printf("⚠️  MinIO unavailable, image upload disabled: %v", err)
		} else {
			c.ObjectStore = store
			log.Println("✅ MinIO connected")
		}
	}

	c.JWTManager = jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	c.Invalidator = invalidation.NewInvalidator(c.Reads, c.SearchIndex)
	return nil
}

// buildCache falls back to the no-op cache when the configured backend is unusable.
func (c *Container) buildCache(ctx context.Context) cache.Cache {
	cfg := c.Config

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		log.Println("🔴 Connecting to Redis...")
		if err := c.Redis.Connect(ctx); err != nil {
			log.Printf("⚠️  Redis connection failed (non-critical), caching disabled: %v", err)
			return cache.NewNoopCache()
		}
		log.Println("✅ Redis cache enabled")
		return cache.NewRedisCache(c.Redis.Client, cfg.Cache.TTL.Default)

	case config.CacheBackendMemory:
		mem, err := cache.NewMemoryCache(cache.MemoryConfig{
			Capacity:           cfg.Cache.Memory.Capacity,
			NumShards:          cfg.Cache.Memory.Shards,
			MaxTTL:             maxTTL(cfg.Cache.TTL),
			EvictionPercentage: cfg.Cache.Memory.EvictionPercentage,
		})
		if err != nil {
			log.Printf("⚠️  Memory cache misconfigured, caching disabled: %v", err)
			return cache.NewNoopCache()
		}
		log.Println("✅ In-memory cache enabled")
		return mem

	default:
		log.Println("ℹ️  Caching disabled")
		return cache.NewNoopCache()
	}
}

func maxTTL(ttl config.CacheTTLConfig) time.Duration {
	longest := ttl.Default
	for _, d := range []time.Duration{ttl.AuthorsSummary, ttl.Author, ttl.BookAvgScore, ttl.Search} {
		if d > longest {
			longest = d
		}
	}
	return longest
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AuthorRepo = authorRepo.NewPostgresAuthorRepository(pool)
	c.BookRepo = bookRepo.NewPostgresBookRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(pool)
	c.SaleRepo = saleRepo.NewPostgresSaleRepository(pool)
	c.Aggregator = reportRepo.NewPostgresAggregator(pool)
}

func (c *Container) initServices() {
	ttl := c.Config.Cache.TTL

	c.BookService = bookService.NewService(
		c.BookRepo,
		c.AuthorRepo,
		c.ReviewRepo,
		c.SaleRepo,
		c.Invalidator,
	)

	c.AuthorService = authorService.NewAuthorService(
		c.AuthorRepo,
		c.BookService,
		c.Invalidator,
		c.Reads,
		ttl.Author,
		c.Images,
		c.ObjectStore,
	)

	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.BookRepo, c.Invalidator)
	c.SaleService = saleService.NewSaleService(c.SaleRepo, c.BookRepo, c.Invalidator)

	c.ReportService = reportService.NewReportService(
		c.Aggregator,
		c.Reads,
		c.SearchIndex,
		reportService.TTLs{
			AuthorsSummary: ttl.AuthorsSummary,
			BookAvgScore:   ttl.BookAvgScore,
			Search:         ttl.Search,
		},
	)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
	c.SaleHandler = saleHandler.NewSaleHandler(c.SaleService)
	c.ReportHandler = reportHandler.NewReportHandler(c.ReportService)
}

// ========================================
// HELPERS
// ========================================

// RedisClientOpt builds the asynq connection options.
func RedisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return infraCache.AsynqOpt(cfg)
}

// BuildSearchIndex picks the index backend. With search.async the API only
// enqueues writes and the worker applies them to the inner index.
func BuildSearchIndex(cfg *config.Config, db *database.PostgresDB, client *asynq.Client) search.Index {
	var index search.Index = search.NewNoopIndex()
	if cfg.Search.Backend == config.SearchBackendPostgres {
		index = search.NewPostgresIndex(db.Pool)
	}

	if cfg.Search.Async && client != nil {
		return search.NewQueuedIndex(client, index)
	}
	return index
}

// Cleanup releases every resource. Safe on a partially built container.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("✅ Container cleanup completed")
}
