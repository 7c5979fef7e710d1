// Sensitive Field Gate
// Copyright (c) 2024 Sensitive Field Gate
// Licensed under the MIT License. See LICENSE file for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"sensitive-field-gate/internal/adapters/driven/casbinrbac"
	"sensitive-field-gate/internal/adapters/driven/notify"
	"sensitive-field-gate/internal/adapters/driven/persistence"
	"sensitive-field-gate/internal/core/domain"
	"sensitive-field-gate/internal/core/ports/driven"
	"sensitive-field-gate/internal/core/ports/driving"
	"sensitive-field-gate/internal/core/services"
	"sensitive-field-gate/internal/platform/config"
	"sensitive-field-gate/internal/platform/logger"
	"sensitive-field-gate/internal/platform/metrics"
)

// GateService exposes the retrieval gates and role administration over HTTP
type GateService struct {
	gate          driving.RetrievalGate
	roles         driven.RoleMembershipRepository
	notifications driven.NotificationRepository
	policy        domain.Policy
	roleStore     string
	notifierName  string
	logger        *slog.Logger
}

// NewGateService wires the gates against the configured role store and notifier
func NewGateService(cfg config.Config, db *gorm.DB, logger *slog.Logger, m *metrics.Metrics) (*GateService, error) {
	var roles driven.RoleMembershipRepository
	switch cfg.RoleStore {
	case config.RoleStoreCasbin:
		casbinRoles, err := casbinrbac.NewRoleMembershipRepository(db, cfg.CasbinTable)
		if err != nil {
			return nil, fmt.Errorf("failed to create casbin role store: %w", err)
		}
		roles = casbinRoles
	default:
		roles = persistence.NewRoleMembershipRepository(db)
	}

	notifications := persistence.NewNotificationRepository(db)

	var notifier driven.Notifier
	switch cfg.Notifier {
	case config.NotifierRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		notifier = notify.NewRedisNotifier(client, cfg.RedisStream)
	default:
		notifier = notify.NewStoreNotifier(notifications)
	}

	service := newGateService(cfg.Policy, roles, notifications, notifier, logger, m)
	service.roleStore = cfg.RoleStore
	service.notifierName = cfg.Notifier
	return service, nil
}

func newGateService(
	policy domain.Policy,
	roles driven.RoleMembershipRepository,
	notifications driven.NotificationRepository,
	notifier driven.Notifier,
	logger *slog.Logger,
	m *metrics.Metrics,
) *GateService {
	opts := []services.Option{services.WithLogger(logger), services.WithMetrics(m)}

	checker := services.NewEntitlementCheckerImpl(roles, policy, opts...)
	rewriter := services.NewQueryFilterRewriterImpl(checker, notifier, policy, opts...)
	redactor := services.NewResultRedactorImpl(checker, policy, opts...)

	return &GateService{
		gate:          services.NewRetrievalGateImpl(rewriter, redactor, opts...),
		roles:         roles,
		notifications: notifications,
		policy:        policy,
		roleStore:     config.RoleStoreSQL,
		notifierName:  config.NotifierStore,
		logger:        logger,
	}
}

// setupRouter registers the API routes and middleware
func setupRouter(s *GateService, gatherer prometheus.Gatherer) *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.healthHandler).Methods("GET")

	// Retrieval stages
	api.HandleFunc("/retrievals/pre-operation", s.preOperationHandler).Methods("POST")
	api.HandleFunc("/retrievals/post-operation", s.postOperationHandler).Methods("POST")

	// User role endpoints
	api.HandleFunc("/users/{userId}/roles", s.addUserRoleHandler).Methods("POST")
	api.HandleFunc("/users/{userId}/roles", s.getUserRolesHandler).Methods("GET")
	api.HandleFunc("/users/{userId}/roles/{role}", s.deleteUserRoleHandler).Methods("DELETE")

	// Notification outbox
	api.HandleFunc("/users/{userId}/notifications", s.getUserNotificationsHandler).Methods("GET")

	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")

	router.Use(corsMiddleware)
	router.Use(loggingMiddleware(s.logger))
	return router
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs incoming HTTP requests
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"duration", time.Since(start),
			)
		})
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(log)

	db, err := persistence.Open(persistence.DatabaseConfig{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := persistence.Migrate(db); err != nil {
		log.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	service, err := NewGateService(cfg, db, log, metrics.New(registry))
	if err != nil {
		log.Error("Failed to initialize gate service", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(service, registry),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("Starting sensitive field gate",
			"addr", server.Addr,
			"role_store", cfg.RoleStore,
			"notifier", cfg.Notifier,
			"entity", cfg.Policy.EntityName,
			"attribute", cfg.Policy.ProtectedAttribute,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", "error", err)
	}
}
