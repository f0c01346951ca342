package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/predictfc/football-predict/internal/config"
	"github.com/predictfc/football-predict/internal/domain/storage"
	"github.com/predictfc/football-predict/internal/infrastructure/repository/memory"
	"github.com/predictfc/football-predict/internal/infrastructure/repository/postgres"
	"github.com/predictfc/football-predict/internal/interfaces/httpapi"
	"github.com/predictfc/football-predict/internal/platform/logging"
	"github.com/predictfc/football-predict/internal/platform/resilience"
	"github.com/predictfc/football-predict/internal/reconcile"
	"github.com/predictfc/football-predict/internal/resolver"
	"github.com/predictfc/football-predict/internal/source"
	"github.com/predictfc/football-predict/internal/source/footballdata"
	"github.com/predictfc/football-predict/internal/source/juhe"
	"github.com/predictfc/football-predict/internal/source/soccerstats"
	"github.com/predictfc/football-predict/internal/usecase"
)

// repoUnit is a transaction boundary that can also hand out repositories
// outside a transaction, for read paths and resolver reloads.
type repoUnit interface {
	storage.Unit
	Repos() storage.Repos
}

// App holds every wired service; the api and sync binaries pick what they
// need from it.
type App struct {
	Config     config.Config
	Unit       repoUnit
	Resolver   *resolver.Resolver
	Registry   *source.Registry
	Sync       *usecase.SyncService
	Stats      *usecase.StatsService
	Prediction *usecase.PredictionService
	Logger     *logging.Logger

	closeDB func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	unit, closeDB, err := buildUnit(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	aliases, err := resolver.NewAliasStore(cfg.ResolverAliasFile, cfg.ResolverUnresolvedFile, logger)
	if err != nil {
		return nil, fmt.Errorf("open alias store: %w", err)
	}

	res, err := resolver.New(ctx, unit.Repos().Teams, aliases, logger)
	if err != nil {
		return nil, fmt.Errorf("build resolver: %w", err)
	}
	res.SetThreshold(cfg.ResolverFuzzyThreshold)
	res.ConfigureCache(cfg.CacheEnabled, cfg.CacheTTL)

	registry, err := buildRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}

	statsService := usecase.NewStatsService(unit, cfg.StatsWorkers, logger)

	syncService := usecase.NewSyncService(
		unit,
		registry,
		res,
		reconcile.New(logger),
		statsService,
		usecase.SyncConfig{
			LeagueMappings:   cfg.LeagueMappings(),
			LeaguePause:      cfg.SyncLeaguePause,
			WindowPast:       cfg.SyncWindowPast,
			WindowFuture:     cfg.SyncWindowFuture,
			CuratedAliasFile: cfg.ResolverCuratedFile,
		},
		logger,
	)

	weights, err := usecase.LoadScorerWeights(cfg.PredictionWeightsFile)
	if err != nil {
		return nil, fmt.Errorf("load scorer weights: %w", err)
	}
	predictionService := usecase.NewPredictionService(
		unit,
		res,
		usecase.NewWeightedScorer(weights),
		logger,
	)

	return &App{
		Config:     cfg,
		Unit:       unit,
		Resolver:   res,
		Registry:   registry,
		Sync:       syncService,
		Stats:      statsService,
		Prediction: predictionService,
		Logger:     logger,
		closeDB:    closeDB,
	}, nil
}

// Close releases the database pool. Safe to call on a partially built app.
func (a *App) Close() error {
	if a == nil || a.closeDB == nil {
		return nil
	}
	return a.closeDB()
}

// NewHTTPServer wires the full application behind the HTTP router.
func NewHTTPServer(app *App) (*http.Server, error) {
	handler := httpapi.NewHandler(app.Sync, app.Prediction, app.Stats, app.Resolver, app.Logger)
	router := httpapi.NewRouter(handler, app.Logger, app.Config.CORSAllowedOrigins, app.Config.InternalJobToken)

	server := &http.Server{
		Addr:         app.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  app.Config.ReadTimeout,
		WriteTimeout: app.Config.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// buildUnit selects the storage backend. DB_URL=memory keeps everything
// in-process, useful for local runs without postgres.
func buildUnit(ctx context.Context, cfg config.Config, logger *logging.Logger) (repoUnit, func() error, error) {
	if strings.EqualFold(strings.TrimSpace(cfg.DBURL), "memory") {
		logger.Warn("using in-memory storage, data will not survive a restart")
		return memory.NewUnit(), func() error { return nil }, nil
	}

	db, err := postgres.Open(ctx, cfg.DBURL)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewUnit(db), db.Close, nil
}

func buildRegistry(cfg config.Config, logger *logging.Logger) (*source.Registry, error) {
	registry := source.NewRegistry()

	// Registration order is merge precedence: the richest feed first.
	if cfg.FootballData.Enabled {
		adapter := footballdata.New(footballdata.Config{
			BaseURL:        cfg.FootballData.BaseURL,
			APIKey:         cfg.FootballDataToken,
			Timeout:        cfg.FootballData.Timeout,
			MaxRetries:     cfg.FootballData.MaxRetries,
			Logger:         logger,
			CircuitBreaker: resilienceConfig(cfg.FootballData),
		})
		if err := registry.Register(adapter); err != nil {
			return nil, err
		}
	}

	if cfg.Juhe.Enabled {
		adapter := juhe.New(juhe.Config{
			BaseURL:        cfg.Juhe.BaseURL,
			APIKey:         cfg.JuheKey,
			Timeout:        cfg.Juhe.Timeout,
			MaxRetries:     cfg.Juhe.MaxRetries,
			Logger:         logger,
			CircuitBreaker: resilienceConfig(cfg.Juhe),
		})
		if err := registry.Register(adapter); err != nil {
			return nil, err
		}
	}

	if cfg.SoccerStats.Enabled {
		adapter := soccerstats.New(soccerstats.Config{
			BaseURL:        cfg.SoccerStats.BaseURL,
			Timeout:        cfg.SoccerStats.Timeout,
			MaxRetries:     cfg.SoccerStats.MaxRetries,
			Logger:         logger,
			CircuitBreaker: resilienceConfig(cfg.SoccerStats),
		})
		if err := registry.Register(adapter); err != nil {
			return nil, err
		}
	}

	logger.Info("source registry built", "adapters", registry.Names())
	return registry, nil
}

func resilienceConfig(p config.ProviderConfig) resilience.CircuitBreakerConfig {
	return resilience.CircuitBreakerConfig{
		Enabled:          p.CircuitEnabled,
		FailureThreshold: p.CircuitFailureCount,
		OpenTimeout:      p.CircuitOpenTimeout,
		HalfOpenMaxReq:   p.CircuitHalfOpenMaxReq,
	}
}
