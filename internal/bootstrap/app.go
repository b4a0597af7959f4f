package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"salary-backend/internal/batch"
	"salary-backend/internal/ingest"
	"salary-backend/internal/market"
	"salary-backend/internal/model"
	"salary-backend/internal/predictions"
	"salary-backend/internal/queue"
	"salary-backend/internal/services/health"
	"salary-backend/internal/shared/config"
	"salary-backend/internal/shared/server"
	"salary-backend/internal/shared/server/middleware"
	"salary-backend/internal/shared/storage/db"
	"salary-backend/internal/shared/storage/object"
	localstore "salary-backend/internal/shared/storage/object/local"
	s3store "salary-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config            config.Config
	Router            *gin.Engine
	DB                *sql.DB
	Store             object.ObjectStore
	Queue             queue.Client
	Model             *model.Holder
	Market            market.Source
	Ingestor          *ingest.Ingestor
	RunsRepo          batch.RunsRepo
	BatchService      *batch.Service
	PredictionService *predictions.Service
	HealthService     *health.Service
	BatchHandler      *batch.Handler
	PredictionHandler *predictions.Handler
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Store:    store,
		Queue:    queueClient,
		Model:    buildModel(cfg),
		Market:   buildMarket(cfg),
		Ingestor: buildIngestor(cfg),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		BatchHandler:      app.BatchHandler,
		PredictionHandler: app.PredictionHandler,
		Health:            app.HealthService,
		Model:             app.Model,
		Market:            app.Market,
		RateLimiter:       middleware.NewRateLimiter(nil),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			_ = sqlDB.Close()
			return nil, nil
		}
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.BatchEventsQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.BatchEventsQueueURL, cfg.AWSRegion)
}

func buildModel(cfg config.Config) *model.Holder {
	return model.NewHolder(model.Resolvers(cfg.ModelPaths, model.RemoteConfig{
		Endpoint:     cfg.ModelEndpoint,
		ClientID:     cfg.ModelClientID,
		ClientSecret: cfg.ModelClientSecret,
		TokenURL:     cfg.ModelTokenURL,
		Timeout:      30 * time.Second,
	})...)
}

func buildMarket(cfg config.Config) market.Source {
	if strings.TrimSpace(cfg.MarketAPIKey) == "" {
		log.Printf("bootstrap: ALPHA_VANTAGE_API_KEY empty; market index falls back to %.0f", market.Fallback)
	}
	return market.NewClient(cfg.MarketAPIKey, cfg.MarketURL, cfg.MarketTimeout)
}

func buildIngestor(cfg config.Config) *ingest.Ingestor {
	if cfg.PDFExtractor != "tabula" {
		return ingest.New(nil)
	}
	tabula := ingest.TabulaExtractor{JarPath: cfg.TabulaJar}
	if _, err := tabula.Check(); err != nil {
		log.Printf("bootstrap: PDF uploads will fail until the dependency is installed: %v", err)
	}
	return ingest.New(tabula)
}

func buildServices(app *App) {
	if app.DB != nil {
		app.RunsRepo = &batch.PGRepo{DB: app.DB}
	} else {
		app.RunsRepo = batch.NewMemoryRepo()
	}

	app.BatchService = &batch.Service{
		Store:  app.Store,
		Repo:   app.RunsRepo,
		Ingest: app.Ingestor,
		Model:  app.Model,
		Market: app.Market,
		Queue:  app.Queue,
	}
	app.PredictionService = &predictions.Service{
		Model:  app.Model,
		Market: app.Market,
	}
	app.HealthService = health.NewService(app.DB, app.Model)

	app.BatchHandler = batch.NewHandler(app.BatchService)
	app.PredictionHandler = predictions.NewHandler(app.PredictionService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
