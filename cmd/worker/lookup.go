package worker

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paycrux/switch-connector/internal/config"
	"github.com/paycrux/switch-connector/internal/correlation"
	"github.com/paycrux/switch-connector/internal/db"
	"github.com/paycrux/switch-connector/internal/dispatcher"
	"github.com/paycrux/switch-connector/internal/kafka"
	"github.com/paycrux/switch-connector/internal/logger"
	"github.com/paycrux/switch-connector/internal/metrics"
	"github.com/paycrux/switch-connector/internal/process"
	"github.com/paycrux/switch-connector/internal/repository"
	"github.com/paycrux/switch-connector/internal/resumer"
	"github.com/paycrux/switch-connector/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Run the outbound lookup worker",
	RunE:  runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Log.Level)
	metrics.MustRegister(prometheus.DefaultRegisterer)

	// 2) MySQL (lookup journal)
	dbx, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
		MaxOpenConns:    cfg.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.MySQL.MaxIdleConns,
		ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
		PingTimeout:     cfg.MySQL.PingTimeout,
	})
	if err != nil {
		return fmt.Errorf("mysql connect: %w", err)
	}
	defer dbx.Close()

	// 3) Redis (correlation store)
	rds, err := db.NewRedisClient(db.RedisOpts{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		DialTimeout: cfg.Redis.DialTimeout,
	})
	if err != nil {
		return fmt.Errorf("redis connect: %w", err)
	}
	defer func() { _ = rds.Close() }()

	// 4) Kafka: command consumer + engine bridge publisher
	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = "swconn"
	}
	consumer := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Process.CommandTopic,
		GroupID:        groupID + "-lookup",
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		CommitInterval: time.Duration(cfg.Kafka.CommitInterval) * time.Millisecond,
	})
	defer consumer.Close()

	pub := kafka.NewPublisher(cfg.Kafka.Brokers)
	defer func() { _ = pub.Close() }()

	engine := process.NewKafkaEngine(pub, cfg.Process.StartTopic, cfg.Process.SignalTopic)
	store := correlation.NewRedisStore(rds, cfg.Correlation.TTL)
	sw := dispatcher.NewSwitchClient(cfg.Switch.BaseURL, cfg.Switch.TimeoutMs)
	res := resumer.New(store, engine, repository.NewLookupsRepository(dbx), cfg.Process.SignalTTL, logger.Log)

	w := worker.NewLookupWorker(cfg, consumer, sw, store, res)

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf(">> lookup worker started topic=%s group=%s workers=%d",
		cfg.Process.CommandTopic, groupID+"-lookup", w.Workers)

	return w.Run(ctx)
}
