package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/fantasy-rounds/internal/config"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/player"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/round"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/score"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/team"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/transfer"
	"github.com/riskibarqy/fantasy-rounds/internal/domain/user"
	"github.com/riskibarqy/fantasy-rounds/internal/infrastructure/account/anubis"
	cacherepo "github.com/riskibarqy/fantasy-rounds/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-rounds/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-rounds/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-rounds/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/fantasy-rounds/internal/platform/cache"
	"github.com/riskibarqy/fantasy-rounds/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rounds/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-rounds/internal/usecase"
)

// App bundles the HTTP server, the deadline sweeper, and the database handle
// so the entrypoint can manage their lifecycles together.
type App struct {
	Server  *http.Server
	Sweeper *usecase.DeadlineSweeper

	db *sqlx.DB
}

// New wires repositories, services, and the HTTP router. With an empty DB_URL
// the app runs on seeded in-memory repositories, which keeps local development
// free of infrastructure.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var (
		roundRepo    round.Repository
		playerRepo   player.Repository
		teamRepo     team.Repository
		transferRepo transfer.Repository
		scoreRepo    score.Repository
		userRepo     user.Repository
		txRunner     usecase.TxRunner
		db           *sqlx.DB
	)

	if cfg.DBURL == "" {
		rounds := memory.NewRoundRepository()
		players := memory.NewPlayerRepository()
		if err := memory.SeedDemoData(ctx, rounds, players); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}

		roundRepo = rounds
		playerRepo = players
		teamRepo = memory.NewTeamRepository()
		transferRepo = memory.NewTransferRepository()
		scoreRepo = memory.NewScoreRepository()
		userRepo = memory.NewUserRepository()
		txRunner = memory.NewTxRunner()

		logger.InfoContext(ctx, "running with in-memory repositories", "reason", "DB_URL empty")
	} else {
		opened, err := openDatabase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		db = opened

		store := postgres.NewStore(db)
		roundRepo = postgres.NewRoundRepository(store)
		playerRepo = postgres.NewPlayerRepository(store)
		teamRepo = postgres.NewTeamRepository(store)
		transferRepo = postgres.NewTransferRepository(store)
		scoreRepo = postgres.NewScoreRepository(store)
		userRepo = postgres.NewUserRepository(store)
		txRunner = store

		logger.InfoContext(ctx, "database connected", "db_name", dbNameFromURL(cfg.DBURL))
	}

	if cfg.CacheEnabled {
		cacheStore := basecache.NewStore(cfg.CacheTTL)
		roundRepo = cacherepo.NewRoundRepository(roundRepo, cacheStore)
		playerRepo = cacherepo.NewPlayerRepository(playerRepo, cacheStore)
		logger.InfoContext(ctx, "repository cache enabled", "ttl", cfg.CacheTTL.String())
	}

	scoringSvc := usecase.NewScoringService(roundRepo, playerRepo, teamRepo, scoreRepo, userRepo, txRunner)
	roundSvc := usecase.NewRoundService(roundRepo, teamRepo, scoringSvc, txRunner)
	teamSvc := usecase.NewTeamService(roundRepo, playerRepo, teamRepo, transferRepo, userRepo, txRunner)
	playerSvc := usecase.NewPlayerService(playerRepo, teamRepo)
	leaderboardSvc := usecase.NewLeaderboardService(userRepo, teamRepo, playerRepo, scoreRepo, roundRepo)

	sweeper := usecase.NewDeadlineSweeper(roundRepo, roundSvc, logger, cfg.SweeperInterval)

	verifier := anubis.NewClient(anubis.ClientConfig{
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectPath,
		Timeout:        cfg.AnubisTimeout,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
	})

	handler := httpapi.NewHandler(roundSvc, teamSvc, playerSvc, scoringSvc, leaderboardSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.AdminKey)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server:  server,
		Sweeper: sweeper,
		db:      db,
	}, nil
}

// Close releases resources that outlive the HTTP server.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}

	return a.db.Close()
}

func openDatabase(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dbURL,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
