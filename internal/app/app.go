package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/fitrivals/fitrivals-api/internal/config"
	"github.com/fitrivals/fitrivals-api/internal/infrastructure/account"
	"github.com/fitrivals/fitrivals-api/internal/infrastructure/jobqueue"
	"github.com/fitrivals/fitrivals-api/internal/infrastructure/repository/postgres"
	"github.com/fitrivals/fitrivals-api/internal/interfaces/httpapi"
	"github.com/fitrivals/fitrivals-api/internal/platform/cache"
	idgen "github.com/fitrivals/fitrivals-api/internal/platform/id"
	"github.com/fitrivals/fitrivals-api/internal/platform/logging"
	"github.com/fitrivals/fitrivals-api/internal/platform/resilience"
	"github.com/fitrivals/fitrivals-api/internal/usecase"
)

// NewHTTPServer wires the full service graph and returns the HTTP
// server plus a cleanup that releases the database pool. The caller
// owns both lifecycles.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	leagueRepo := postgres.NewLeagueRepository(db)
	memberRepo := postgres.NewMemberRepository(db)
	matchupRepo := postgres.NewMatchupRepository(db)
	playoffRepo := postgres.NewPlayoffRepository(db)
	scoreRepo := postgres.NewWeeklyScoreRepository(db)
	competitionStore := postgres.NewStore(db)

	ids := idgen.NewRandomGenerator()

	readCache := cache.NewDisabledStore()
	if cfg.CacheEnabled {
		readCache = cache.NewStore(cfg.CacheTTL)
	}

	leagueSvc := usecase.NewLeagueService(leagueRepo, memberRepo, ids, logger)
	scheduleSvc := usecase.NewScheduleService(competitionStore, ids)
	weekSvc := usecase.NewWeekService(competitionStore)
	playoffSvc := usecase.NewPlayoffService(competitionStore, leagueRepo, playoffRepo, ids)
	syncSvc := usecase.NewSyncService(leagueRepo, memberRepo, scoreRepo)
	standingsSvc := usecase.NewStandingsService(leagueRepo, memberRepo, matchupRepo, playoffRepo, scoreRepo, readCache)

	var queue usecase.JobQueue
	if cfg.QStashEnabled {
		queue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger)
	}
	orchestratorSvc := usecase.NewOrchestratorService(leagueRepo, playoffRepo, scheduleSvc, weekSvc, playoffSvc, queue, logger)

	accountClient := account.NewClient(account.ClientConfig{
		BaseURL:        cfg.AccountBaseURL,
		IntrospectPath: cfg.AccountIntrospectPath,
		Timeout:        cfg.AccountTimeout,
		CacheTTL:       cfg.AccountCacheTTL,
		CacheEntries:   cfg.AccountCacheEntries,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AccountCircuitEnabled,
			FailureThreshold: cfg.AccountCircuitFailureCount,
			OpenTimeout:      cfg.AccountCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AccountCircuitHalfOpenMaxReq,
		},
	})

	handler := httpapi.NewHandler(leagueSvc, syncSvc, standingsSvc, orchestratorSvc, cfg.SweepMaxWorkers, logger)
	router := httpapi.NewRouter(handler, accountClient, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
