// Command server runs the evidence kernel: evidence intake and sealing,
// deterministic readiness evaluation, the audit ledger, and the operator
// surface. Postgres, Redis, and Kafka are each optional; absent backends
// fall back to in-process equivalents so the binary runs standalone in
// development.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"veritas/internal/admin"
	"veritas/internal/audit"
	"veritas/internal/command"
	"veritas/internal/entity"
	"veritas/internal/evidence"
	evidencehandler "veritas/internal/evidence/handler"
	httpapi "veritas/internal/http"
	jwttoken "veritas/internal/jwt_token"
	"veritas/internal/platform/config"
	"veritas/internal/platform/httpserver"
	"veritas/internal/platform/kafka"
	"veritas/internal/platform/logger"
	"veritas/internal/platform/postgres"
	"veritas/internal/platform/redis"
	"veritas/internal/readiness"
	readinesshandler "veritas/internal/readiness/handler"
	"veritas/internal/tenant"
	"veritas/pkg/platform/tx"
)

const auditTopic = "veritas.audit.events"

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.PostgresDSN != "" {
		var err error
		db, err = postgres.Open(cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("postgres connected")
	} else {
		log.Warn("no postgres configured, using in-memory stores")
	}

	rdb, err := redis.New(config.RedisFromEnv())
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	var commandStore command.Store
	if rdb != nil {
		defer rdb.Close()
		commandStore = command.NewRedisStore(rdb.Client)
		log.Info("redis connected, command replay is cross-instance")
	} else {
		commandStore = command.NewInMemoryStore()
		log.Warn("no redis configured, command replay is per-instance")
	}
	commands := command.NewExecutor(commandStore, config.CommandResultTTL)

	var producer *kafka.Producer
	if cfg.KafkaBrokers != "" {
		producer, err = kafka.NewProducer(ctx, cfg.KafkaBrokers, auditTopic)
		if err != nil {
			log.Error("kafka connection failed", "error", err)
			os.Exit(1)
		}
		log.Info("kafka connected", "topic", auditTopic)
	} else {
		log.Warn("no kafka configured, audit events are not streamed")
	}

	var (
		auditStore   audit.Store
		tenantStore  tenant.Store
		entityStore  entity.Store
		draftStore   evidence.DraftStore
		attachStore  evidence.AttachmentStore
		sealedStore  evidence.SealedStore
		profileStore evidence.ProfileStore
		ruleStore    readiness.RuleStore
		resultStore  readiness.ResultStore
		runner       tx.Runner
	)
	if db != nil {
		auditStore = audit.NewPostgres(db)
		tenantStore = tenant.NewPostgresStore(db)
		entityStore = entity.NewPostgresStore(db)
		draftStore = evidence.NewPostgresDraftStore(db)
		attachStore = evidence.NewPostgresAttachmentStore(db)
		sealedStore = evidence.NewPostgresSealedStore(db)
		profileStore = evidence.NewPostgresProfileStore(db)
		ruleStore = readiness.NewPostgresRuleStore(db)
		resultStore = readiness.NewPostgresResultStore(db)
		runner = tx.NewSQLRunner(db)
	} else {
		auditStore = audit.NewInMemoryStore()
		tenantStore = tenant.NewMemoryStore()
		entityStore = entity.NewMemoryStore()
		draftStore = evidence.NewMemoryDraftStore()
		attachStore = evidence.NewMemoryAttachmentStore()
		sealedStore = evidence.NewMemorySealedStore()
		profileStore = evidence.NewMemoryProfileStore()
		ruleStore = readiness.NewMemoryRuleStore()
		resultStore = readiness.NewMemoryResultStore()
		runner = tx.NewNoopRunner()
	}

	auditor := audit.NewPublisher(auditStore, producer, log)
	directory := entity.NewDirectory(entityStore)

	tenantService := tenant.NewService(tenantStore,
		tenant.WithLogger(log),
		tenant.WithAuditPublisher(auditor),
		tenant.WithMetrics(),
	)
	entityService := entity.NewService(entityStore, auditor, log)

	evidenceService := evidence.NewService(evidence.ServiceDeps{
		Drafts:      draftStore,
		Attachments: attachStore,
		Sealed:      sealedStore,
		Profiles:    profileStore,
		Targets:     directory,
		Auditor:     auditor,
		Commands:    commands,
		Runner:      runner,
		Logger:      log,
		Metrics:     evidence.NewMetrics(),
	})
	readinessService := readiness.NewService(readiness.ServiceDeps{
		Entities: directory,
		Evidence: sealedStore,
		Profiles: profileStore,
		Rules:    ruleStore,
		Results:  resultStore,
		Auditor:  auditor,
		Commands: commands,
		Runner:   runner,
		Logger:   log,
		Metrics:  readiness.NewMetrics(),
	})

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)

	router := httpapi.NewRouter(httpapi.Deps{
		Evidence:     evidencehandler.New(evidenceService, log),
		Readiness:    readinesshandler.New(readinessService, log),
		Admin:        admin.New(tenantService, entityService, evidenceService, readinessService, log),
		Audit:        audit.NewHandler(auditor, log),
		JWTValidator: jwtService,
		TenantGate:   tenantService,
		AdminToken:   cfg.AdminToken,
		BuildVersion: cfg.BuildVersion,
		Logger:       log,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr, "build", cfg.BuildVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if producer != nil {
		if err := producer.Close(shutdownCtx); err != nil {
			log.Error("kafka close failed", "error", err)
		}
	}
}
