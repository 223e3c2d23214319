package worker

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/customer-service/internal/config"
	"github.com/jmehdipour/customer-service/internal/db"
	"github.com/jmehdipour/customer-service/internal/kafka"
	"github.com/jmehdipour/customer-service/internal/logger"
	"github.com/jmehdipour/customer-service/internal/metrics"
	"github.com/jmehdipour/customer-service/internal/repository"
	"github.com/jmehdipour/customer-service/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var metricsAddr string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Project customer events from Kafka into the ClickHouse audit store",
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9102", "address serving /metrics (empty disables)")
}

func runAudit(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	// 2) ClickHouse
	if !cfg.ClickHouse.Enabled() {
		return fmt.Errorf("audit worker needs clickhouse.dsn")
	}
	chDB, err := db.NewClickHouseConnection(cfg.ClickHouse.DSN, db.PoolOptsFrom(cfg.ClickHouse))
	if err != nil {
		return fmt.Errorf("clickhouse connect: %w", err)
	}
	defer chDB.Close()

	// 3) kafka consumer
	kcfg := kafka.ConfigFrom(cfg.Kafka)
	if kcfg.GroupID == "" {
		kcfg.GroupID = "custsvc-audit"
	}
	consumer := kafka.NewConsumerFromConfig(kcfg)
	defer consumer.Close()

	w := worker.NewAuditProjector(consumer, repository.NewCHCustomerEventsRepository(chDB), log)
	if cfg.Audit.BatchSize > 0 {
		w.BatchSize = cfg.Audit.BatchSize
	}
	if cfg.Audit.BatchWait > 0 {
		w.BatchWait = cfg.Audit.BatchWait
	}

	// 4) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: promhttp.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server", zap.Error(err))
			}
		}()
		defer func() { _ = srv.Close() }()
	}

	log.Info("audit worker started",
		zap.String("topic", kcfg.Topic),
		zap.String("group", kcfg.GroupID),
		zap.Int("batch_size", w.BatchSize),
		zap.Duration("batch_wait", w.BatchWait),
	)

	return w.Run(ctx)
}
