package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	appbook "github.com/xiebiao/bookclub/internal/application/book"
	appledger "github.com/xiebiao/bookclub/internal/application/ledger"
	apporder "github.com/xiebiao/bookclub/internal/application/order"
	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/infrastructure/config"
	"github.com/xiebiao/bookclub/internal/infrastructure/notify"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence/redis"
	grpcapi "github.com/xiebiao/bookclub/internal/interface/grpc"
	"github.com/xiebiao/bookclub/internal/interface/http/middleware"
	"github.com/xiebiao/bookclub/internal/interface/http/router"
	"github.com/xiebiao/bookclub/pkg/circuitbreaker"
	"github.com/xiebiao/bookclub/pkg/jwt"
	"github.com/xiebiao/bookclub/pkg/logger"
	"github.com/xiebiao/bookclub/pkg/mq"
	"github.com/xiebiao/bookclub/pkg/ratelimit"
)

// App 进程内需要启动与关闭的组件
type App struct {
	Engine     *gin.Engine
	GRPC       *grpc.Server
	Dispatcher *apporder.Dispatcher
}

func provideBookSettings(repos *persistence.Repositories) appbook.Settings {
	return appbook.Settings{TreasuryID: repos.TreasuryID}
}

func provideOrderSettings(cfg *config.Config, repos *persistence.Repositories) apporder.Settings {
	return apporder.Settings{TreasuryID: repos.TreasuryID, CodeAttempts: cfg.Commerce.OrderCodeAttempts}
}

func provideLedgerSettings(repos *persistence.Repositories) appledger.Settings {
	return appledger.Settings{TreasuryID: repos.TreasuryID}
}

func providePricer() *book.Pricer {
	return book.NewPricer(book.NewTimeSeededSource())
}

// provideRedis redis.enabled为false时返回nil，依赖方退化为无缓存、无黑名单
func provideRedis(cfg *config.Config, log *logger.Logger) (*goredis.Client, func(), error) {
	if !cfg.Redis.Enabled {
		log.Info("未启用Redis")
		return nil, func() {}, nil
	}
	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

func provideOrderCache(cfg *config.Config, client *goredis.Client) apporder.Cache {
	if client == nil {
		return apporder.NopCache{}
	}
	return redis.NewOrderCache(client, cfg.Commerce.OrderCacheTTL)
}

func provideRevocationList(client *goredis.Client) middleware.RevocationList {
	if client == nil {
		return nil
	}
	return redis.NewTokenBlacklist(client)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)
}

// provideNotifier 按notification.sink选择通知方式
//   - mq: 发布到RabbitMQ，外加熔断
//   - redis: 直接写入用户收件箱
//   - none: 丢弃
func provideNotifier(cfg *config.Config, client *goredis.Client, log *logger.Logger) (apporder.Notifier, func(), error) {
	n := cfg.Notification
	switch n.Sink {
	case "mq":
		publisher, err := mq.NewPublisher(n.AMQPURL, n.Exchange, n.ExchangeType, log)
		if err != nil {
			return nil, nil, err
		}
		breaker := circuitbreaker.NewCircuitBreaker("order-notifications", circuitbreaker.Config{
			Timeout: n.BreakerTimeout,
			ReadyToTrip: func(c circuitbreaker.Counts) bool {
				return c.ConsecutiveFailures >= n.BreakerFailures
			},
		})
		return notify.NewMQNotifier(publisher, n.RoutingKey, breaker, log), func() { _ = publisher.Close() }, nil

	case "redis":
		if client == nil {
			return nil, nil, fmt.Errorf("notification.sink=redis 需要启用Redis")
		}
		return notify.NewInboxNotifier(redis.NewInbox(client, n.InboxSize)), func() {}, nil

	case "none", "":
		return apporder.NopNotifier{}, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("不支持的通知方式: %s", n.Sink)
	}
}

func provideDispatcher(cfg *config.Config, notifier apporder.Notifier, log *logger.Logger) *apporder.Dispatcher {
	return apporder.NewDispatcher(notifier, cfg.Commerce.NotifyTimeout, log)
}

// provideCheckoutLimiter checkout_rate<=0时不限流
func provideCheckoutLimiter(cfg *config.Config) (*ratelimit.KeyedRateLimiter, func()) {
	if cfg.Commerce.CheckoutRate <= 0 {
		return nil, func() {}
	}
	limiter := ratelimit.New(cfg.Commerce.CheckoutRate, cfg.Commerce.CheckoutBurst)
	return limiter, limiter.Stop
}

func provideRouter(
	cfg *config.Config,
	handlers router.Handlers,
	auth *middleware.AuthMiddleware,
	limiter *ratelimit.KeyedRateLimiter,
	log *logger.Logger,
) *gin.Engine {
	return router.New(router.Options{
		Mode:            cfg.Server.Mode,
		RequestTimeout:  cfg.Server.RequestTimeout,
		CheckoutLimiter: limiter,
		Swagger:         cfg.Server.Mode != gin.ReleaseMode,
	}, handlers, auth, log)
}

func provideGRPCServer(srv *grpcapi.OrderServer, jwtManager *jwt.Manager, revoked middleware.RevocationList, log *logger.Logger) *grpc.Server {
	var r grpcapi.RevocationList
	if revoked != nil {
		r = revoked
	}
	return grpcapi.NewServer(srv, jwtManager, r, log)
}
