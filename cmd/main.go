package main

import (
	"context"
	"database/sql"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "vision_runner/docs"
	"vision_runner/internal/cache"
	"vision_runner/internal/config"
	"vision_runner/internal/events"
	"vision_runner/internal/handlers"
	"vision_runner/internal/logger"
	"vision_runner/internal/repository"
	"vision_runner/internal/repository/db"
	"vision_runner/internal/server"
	"vision_runner/internal/service"
)

// @title        Vision Runner API
// @version      1.0
// @description  Vision posts, future entries, user accounts and an activity log.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.Config{Level: logger.InfoLevel}).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	if cfg.UsesDefaultSecret() {
		log.Warnw("JWT secret not configured; using the built-in default", "env", "JWT_SECRET")
	}

	// open DB
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer closeDB(conn, log)

	repos := repository.NewRepository(conn)

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			if cerr := c.Close(); cerr != nil {
				log.Warnw("close failed", "err", cerr)
			}
		}
	}()

	lists := newListCache(cfg.Redis, log, &closers)

	hub := events.NewHub()
	sinks := events.Multi{repository.NewEventSQLite(conn), hub}
	if kp := newKafkaPublisher(cfg.Kafka, log); kp != nil {
		sinks = append(sinks, kp)
		closers = append(closers, kp)
	}

	// wire dependencies
	services := service.NewService(repos, service.Deps{
		Auth: service.AuthConfig{
			Secret:   cfg.Auth.JWTSecret,
			TokenTTL: cfg.Auth.TokenTTL,
		},
		Cache:     lists,
		Publisher: sinks,
		Log:       log,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		RequireToken:    cfg.Auth.RequireToken,
		DefaultAuthorID: cfg.Auth.DefaultAuthorID,
		Hub:             hub,
	})

	// start HTTP server
	srv := server.New(server.Timeouts{
		ReadHeader: cfg.Server.ReadHeaderTimeout,
		Write:      cfg.Server.WriteTimeout,
		Idle:       cfg.Server.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, cfg, log)
}

// newListCache connects to Redis when configured. Any failure leaves the cache disabled.
func newListCache(cfg config.RedisConfig, log *logger.Logger, closers *[]io.Closer) cache.Lists {
	if cfg.Addr == "" {
		return cache.Nop{}
	}
	rdb, err := cache.NewRedisClient(cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		log.Warnw("redis unavailable; list cache disabled", "addr", cfg.Addr, "err", err)
		return cache.Nop{}
	}
	*closers = append(*closers, rdb)
	log.Infow("list cache enabled", "addr", cfg.Addr, "ttl", cfg.TTL)
	return cache.NewRedisLists(rdb, cfg.TTL)
}

func newKafkaPublisher(cfg config.KafkaConfig, log *logger.Logger) *events.KafkaPublisher {
	if len(cfg.Brokers) == 0 {
		return nil
	}
	w := events.NewKafkaWriter(events.KafkaConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		WriteTimeout: cfg.WriteTimeout,
	})
	log.Infow("activity export enabled", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return events.NewKafkaPublisher(w)
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("server is running", "addr", "http://localhost:"+port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, cfg *config.Config, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
