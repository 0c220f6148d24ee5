// notifier 消费下单通知并写入Redis中的用户收件箱
//
// api进程以notification.sink=mq运行时，通知经RabbitMQ到达这里；
// 与api共用同一份配置文件。
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/xiebiao/bookclub/internal/infrastructure/config"
	"github.com/xiebiao/bookclub/internal/infrastructure/notify"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookclub/pkg/logger"
	"github.com/xiebiao/bookclub/pkg/metrics"
	"github.com/xiebiao/bookclub/pkg/mq"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "notifier异常退出: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	log := logger.New(logger.Config{
		Format:    cfg.Log.Format,
		Mode:      cfg.Server.Mode,
		Level:     logger.ParseLevel(cfg.Log.Level),
		AddSource: cfg.Log.AddSource,
	}).With("component", "notifier")
	metrics.InitMetrics()

	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return err
	}
	defer client.Close()

	n := cfg.Notification
	consumer, err := mq.NewConsumer(n.AMQPURL, n.Exchange, n.ExchangeType, n.Queue, []string{n.RoutingKey}, log)
	if err != nil {
		return err
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inbox := redis.NewInbox(client, n.InboxSize)
	err = consumer.Consume(ctx, notify.InboxHandler(inbox))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("notifier已停止")
	return nil
}
