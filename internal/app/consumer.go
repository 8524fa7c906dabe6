package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-leave/internal/config"
	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"
	"go-leave/internal/report"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newReader(cfg *config.Config, topic, group string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		Topic:          topic,
		GroupID:        cfg.KafkaGroupID + "-" + group,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
}

// RunConsumer keeps the report cache in step with leave lifecycle events and
// surfaces workflow anomalies, until SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	in, err := Connect(cfg, true)
	if err != nil {
		return err
	}
	defer in.Close()

	reportService := report.NewService(report.NewRepository(in.GormDB), in.Redis, cfg.CacheTTL)

	lifecycleReader := newReader(cfg, events.LeaveLifecycleTopic, "reports")
	defer lifecycleReader.Close()
	anomalyReader := newReader(cfg, events.WorkflowAnomalyTopic, "anomalies")
	defer anomalyReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		consumer.ConsumeLeaveLifecycle(ctx, lifecycleReader, reportService, logger)
		return nil
	})
	g.Go(func() error {
		consumer.ConsumeWorkflowAnomaly(ctx, anomalyReader, logger)
		return nil
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return g.Wait()
}
