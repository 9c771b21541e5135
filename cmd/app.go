package main

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/docforge.net/internal/adapter/crypto"
	"gitlab.com/docforge.net/internal/adapter/gemini"
	"gitlab.com/docforge.net/internal/adapter/logging"
	"gitlab.com/docforge.net/internal/adapter/postgres/jobrepository"
	"gitlab.com/docforge.net/internal/adapter/process"
	"gitlab.com/docforge.net/internal/adapter/redis/resultcache"
	"gitlab.com/docforge.net/internal/config"
	"gitlab.com/docforge.net/internal/core/ports/secondary"
	auth2 "gitlab.com/docforge.net/internal/core/services/auth"
	"gitlab.com/docforge.net/internal/core/services/compile"
	"gitlab.com/docforge.net/internal/core/services/generate"
	"gitlab.com/docforge.net/internal/core/services/job"
	"gitlab.com/docforge.net/internal/core/services/toolchain"
	"gitlab.com/docforge.net/internal/core/services/workspace"
	"gitlab.com/docforge.net/internal/metrics"
)

// app holds the wired services shared by every command
type app struct {
	cfg      *config.AppConfig
	logger   *logging.ZapLogger
	registry *prometheus.Registry
	recorder *metrics.PrometheusRecorder

	workspaces *workspace.Manager
	jobs       *job.JobService
	compiler   *compile.Service
	generator  *generate.Service
	auth       auth2.IAuthService

	closers []func()
}

// newApp wires the pipeline. Postgres and Redis are only opened when withBackends is set and
// configured; the generator only when an API key is present.
func newApp(ctx context.Context, cfg *config.AppConfig, logger *logging.ZapLogger, withBackends bool) (*app, error) {
	a := &app{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	a.recorder = metrics.NewPrometheusRecorder(a.registry)

	// SECONDARY PORTS
	runner := process.NewExecRunner(logger)

	var jobRepo secondary.JobRepository
	var resultCache secondary.ResultCache
	if withBackends {
		var err error
		if jobRepo, err = a.setupDatabase(ctx); err != nil {
			a.Close()
			return nil, err
		}
		if resultCache, err = a.setupRedis(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	var textGen secondary.TextGenerator
	if cfg.GenAIConfig.Enabled() {
		g, err := gemini.NewGenerator(ctx, cfg.GenAIConfig, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		textGen = g
	}

	//services
	resolver := toolchain.NewResolver(cfg.CompilerConfig, runner, logger)
	resolver.SetObserver(a.recorder)

	a.workspaces = workspace.NewManager(cfg.CompilerConfig.WorkspaceRoot, cfg.CompilerConfig.WorkspacePrefix, logger)
	a.workspaces.SetObserver(a.recorder)

	engine := compile.NewEngine(cfg.CompilerConfig, runner, logger)
	engine.SetObserver(a.recorder)

	a.jobs = job.NewJobService(jobRepo, resultCache, cfg.RedisConfig.ArtifactTTL, logger)

	a.compiler = compile.NewService(resolver, a.workspaces, engine, a.jobs, cfg.CompilerConfig.MaxConcurrent, logger)
	a.compiler.SetObserver(a.recorder)

	a.generator = generate.NewService(textGen, a.compiler, logger)
	a.generator.SetObserver(a.recorder)

	if cfg.JwtConfig.Enabled() {
		a.auth = auth2.NewLocalAuthService(cfg.JwtConfig, crypto.NewJWTService(cfg.JwtConfig), logger)
	}
	return a, nil
}

// setupDatabase opens the PostgreSQL history store; nil when not configured
func (a *app) setupDatabase(ctx context.Context) (secondary.JobRepository, error) {
	pgCfg := a.cfg.PostgresConfig
	if !pgCfg.Enabled() {
		a.logger.Info("Job history disabled, DATABASE_URL not set")
		return nil, nil
	}

	db, err := sqlx.Open("postgres", pgCfg.Url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.closers = append(a.closers, func() { _ = db.Close() })
	db.SetMaxOpenConns(pgCfg.MaxOpenConns)
	db.SetConnMaxLifetime(pgCfg.ConnMaxLifetime)

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	repo := jobrepository.NewJobRepository(db, pgCfg.Schema, a.logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// setupRedis connects the artifact cache; nil when not configured
func (a *app) setupRedis(ctx context.Context) (secondary.ResultCache, error) {
	redisCfg := a.cfg.RedisConfig
	if !redisCfg.Enabled() {
		a.logger.Info("Artifact cache disabled, REDIS_ADDR not set")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Url,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	a.closers = append(a.closers, func() { _ = client.Close() })

	cache := resultcache.NewArtifactCache(client, a.logger)
	if err := cache.Ping(ctx); err != nil {
		return nil, err
	}
	return cache, nil
}

// Close releases backend connections in reverse order
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
