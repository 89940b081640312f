// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/pantrypilot/v1/internal/application/dailyjob"
	"github.com/pantrypilot/v1/internal/application/feedback"
	"github.com/pantrypilot/v1/internal/application/profile"
	"github.com/pantrypilot/v1/internal/application/suggestion"
	"github.com/pantrypilot/v1/internal/engine/generate"
	"github.com/pantrypilot/v1/internal/engine/match"
	"github.com/pantrypilot/v1/internal/engine/score"
	"github.com/pantrypilot/v1/internal/infrastructure/ai/llm"
	"github.com/pantrypilot/v1/internal/infrastructure/cache"
	"github.com/pantrypilot/v1/internal/infrastructure/catalog"
	"github.com/pantrypilot/v1/internal/infrastructure/config"
	"github.com/pantrypilot/v1/internal/infrastructure/http/handlers"
	"github.com/pantrypilot/v1/internal/infrastructure/http/server"
	"github.com/pantrypilot/v1/internal/infrastructure/inventory"
	"github.com/pantrypilot/v1/internal/infrastructure/monitoring"
	gormRepo "github.com/pantrypilot/v1/internal/infrastructure/persistence/gorm"
	"github.com/pantrypilot/v1/internal/infrastructure/persistence/sqlite"
	"github.com/pantrypilot/v1/internal/ports/inbound"
	"github.com/pantrypilot/v1/internal/ports/outbound"
	"github.com/pantrypilot/v1/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	MonitoringModule,
	AdapterModule,
	RepositoryModule,
	EngineModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the SQLite database with GORM
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		db, err := sqlite.SetupDatabase(cfg.Database.Database, logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		log.Info("Connected to SQLite database",
			zap.String("path", cfg.Database.Database),
			zap.Bool("in_memory", cfg.Database.Database == ""),
		)
		return db, nil
	},
)

// CacheModule provides caching, Redis when enabled and in-process
// otherwise
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
		if cfg.Redis.Enabled {
			return cache.NewRedisRepository(&cfg.Redis, log)
		}
		log.Info("Redis disabled, using in-memory cache")
		return cache.NewMemoryRepository(), nil
	},
)

// MonitoringModule provides Prometheus metrics
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(collector *monitoring.MetricsCollector) outbound.MetricsRecorder {
		return collector
	},
)

// AdapterModule provides the external service adapters
var AdapterModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *llm.Client {
		return llm.NewClient(&cfg.AI, log)
	},
	func(client *llm.Client, cacheRepo outbound.CacheRepository, log *zap.Logger) outbound.ClassificationService {
		return llm.NewClassificationAdapter(client, cacheRepo, log)
	},
	func(client *llm.Client, log *zap.Logger) outbound.ReviewParsingService {
		return llm.NewReviewParsingAdapter(client, log)
	},
	func(client *llm.Client, log *zap.Logger) outbound.GenerationService {
		return llm.NewGenerationAdapter(client, log)
	},
	func(cfg *config.Config, log *zap.Logger) outbound.InventoryProvider {
		return inventory.NewGrocyProvider(&cfg.Inventory, log)
	},
	func(cfg *config.Config, cacheRepo outbound.CacheRepository, log *zap.Logger) outbound.RecipeCatalog {
		return catalog.NewClient(&cfg.Catalog, cacheRepo, log)
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewProfileRepository,
	gormRepo.NewFeedbackRepository,
)

// EngineModule provides the matching, scoring and generation engine
var EngineModule = fx.Provide(
	func() *match.Matcher {
		return match.NewMatcher(nil)
	},
	func(cfg *config.Config) *score.Scorer {
		return score.NewScorer(score.Weights{
			Fit:                  cfg.Engine.FitWeight,
			Preference:           cfg.Engine.PreferenceWeight,
			Effort:               cfg.Engine.EffortWeight,
			EssentialMissPenalty: cfg.Engine.EssentialMissPenalty,
			MakeThisFloorPct:     cfg.Engine.YouCanMakeThisFloorPct,
		})
	},
	func(source outbound.GenerationService, log *zap.Logger) *generate.Generator {
		return generate.NewGenerator(source, log)
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(
		inv outbound.InventoryProvider,
		cat outbound.RecipeCatalog,
		profiles outbound.ProfileRepository,
		classify outbound.ClassificationService,
		generator *generate.Generator,
		matcher *match.Matcher,
		scorer *score.Scorer,
		metrics outbound.MetricsRecorder,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.SuggestionService {
		return suggestion.NewService(inv, cat, profiles, classify, generator, matcher, scorer,
			metrics, cfg.Engine.FallbackFitThreshold, log)
	},
	func(
		profiles outbound.ProfileRepository,
		records outbound.FeedbackRepository,
		parser outbound.ReviewParsingService,
		metrics outbound.MetricsRecorder,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.FeedbackService {
		return feedback.NewService(profiles, records, parser, metrics,
			cfg.Engine.FeedbackLearningRate, cfg.Engine.EffortWindowSize, log)
	},
	func(profiles outbound.ProfileRepository, log *zap.Logger) inbound.ProfileService {
		return profile.NewService(profiles, log)
	},
	func(
		profiles outbound.ProfileRepository,
		records outbound.FeedbackRepository,
		metrics outbound.MetricsRecorder,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.DailyUpdateService {
		return dailyjob.NewService(profiles, records, metrics,
			cfg.Engine.PreferenceDecayFactor, cfg.Engine.FeedbackLearningRate,
			cfg.Engine.EffortWindowSize, log)
	},
)

// HTTPModule provides the HTTP server and handlers
var HTTPModule = fx.Provide(
	handlers.NewAPIHandlers,
	server.NewServer,
)

// LifecycleModule registers application lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks starts the HTTP server and tears everything
// down on shutdown
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting PantryPilot",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)
			go func() {
				if err := srv.Start(); err != nil {
					log.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down PantryPilot")
			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}
			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}
			_ = log.Sync()
			return nil
		},
	})
}
