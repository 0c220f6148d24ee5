package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/xiebiao/bookclub/internal/infrastructure/config"
	"github.com/xiebiao/bookclub/pkg/logger"
	"github.com/xiebiao/bookclub/pkg/metrics"
	"github.com/xiebiao/bookclub/pkg/tracing"
)

// @title           Bookclub API
// @version         1.0
// @description     在线书店交易服务：图书、购物车、订单与平台资金
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Bearer <token>
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "服务异常退出: %v\n", err)
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
	})

	shutdownTracer, err := tracing.InitTracer(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return err
	}
	metrics.InitMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := InitializeApp(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("初始化失败: %w", err)
	}
	defer cleanup()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("HTTP服务启动", "addr", httpServer.Addr, "mode", cfg.Server.Mode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP服务失败: %w", err)
		}
	}()

	if cfg.Server.GRPCPort > 0 {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
		if err != nil {
			return fmt.Errorf("监听gRPC端口失败: %w", err)
		}
		go func() {
			log.Info("gRPC服务启动", "addr", lis.Addr().String())
			if err := app.GRPC.Serve(lis); err != nil {
				errCh <- fmt.Errorf("gRPC服务失败: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("收到退出信号，开始关闭")
	case err := <-errCh:
		log.Error("服务异常", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP服务关闭失败", "error", err)
	}
	app.GRPC.GracefulStop()

	// 等待已提交订单的通知发完再断开MQ/Redis
	if err := app.Dispatcher.Wait(shutdownCtx); err != nil {
		log.Warn("仍有通知未发送", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Warn("关闭Tracer失败", "error", err)
	}

	log.Info("服务已关闭")
	return nil
}
