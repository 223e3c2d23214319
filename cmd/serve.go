package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmehdipour/customer-service/internal/config"
	"github.com/jmehdipour/customer-service/internal/db"
	httpSrv "github.com/jmehdipour/customer-service/internal/http"
	"github.com/jmehdipour/customer-service/internal/logger"
	"github.com/jmehdipour/customer-service/internal/repository"
	"github.com/jmehdipour/customer-service/internal/service/customer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log, err := logger.Init(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		mysqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.PoolOptsFrom(cfg.MySQL))
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer mysqlDB.Close()

		gormDB, err := db.NewGorm(mysqlDB, cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("gorm init: %w", err)
		}

		deps := httpSrv.Deps{Log: log}

		if cfg.Redis.Enabled() {
			redisClient, err := db.NewRedisClient(cfg.Redis)
			if err != nil {
				return fmt.Errorf("redis connect: %w", err)
			}
			defer func() { _ = redisClient.Close() }()
			deps.Redis = redisClient
		}

		if cfg.ClickHouse.Enabled() {
			chDB, err := db.NewClickHouseConnection(cfg.ClickHouse.DSN, db.PoolOptsFrom(cfg.ClickHouse))
			if err != nil {
				return fmt.Errorf("clickhouse connect: %w", err)
			}
			defer func() { _ = chDB.Close() }()
			deps.History = repository.NewCHCustomerEventsRepository(chDB)
		}

		deps.Customers = customer.New(
			gormDB,
			repository.NewCustomersRepository(gormDB),
			repository.NewOutboxRepository(gormDB),
			cfg.Kafka.Topic,
			log,
		)

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		deps.Registry = reg

		server := httpSrv.NewServer(cfg, deps)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server exited", zap.Error(err))
				return err
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), httpSrv.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(ctx)
	},
}
