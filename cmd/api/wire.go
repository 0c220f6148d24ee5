//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	appbook "github.com/xiebiao/bookclub/internal/application/book"
	appcart "github.com/xiebiao/bookclub/internal/application/cart"
	appledger "github.com/xiebiao/bookclub/internal/application/ledger"
	apporder "github.com/xiebiao/bookclub/internal/application/order"
	appuser "github.com/xiebiao/bookclub/internal/application/user"
	"github.com/xiebiao/bookclub/internal/domain/book"
	"github.com/xiebiao/bookclub/internal/domain/cart"
	"github.com/xiebiao/bookclub/internal/domain/ledger"
	"github.com/xiebiao/bookclub/internal/infrastructure/config"
	"github.com/xiebiao/bookclub/internal/infrastructure/persistence"
	grpcapi "github.com/xiebiao/bookclub/internal/interface/grpc"
	"github.com/xiebiao/bookclub/internal/interface/http/handler"
	"github.com/xiebiao/bookclub/internal/interface/http/middleware"
	"github.com/xiebiao/bookclub/internal/interface/http/router"
	"github.com/xiebiao/bookclub/pkg/logger"
	"github.com/xiebiao/bookclub/pkg/validation"
)

// infrastructureSet 存储、缓存、通知
var infrastructureSet = wire.NewSet(
	persistence.New,
	wire.FieldsOf(new(*persistence.Repositories), "Tx", "Books", "Carts", "Orders", "Users", "Ledger"),
	provideRedis,
	provideOrderCache,
	provideRevocationList,
	provideNotifier,
	provideDispatcher,
)

var domainSet = wire.NewSet(
	providePricer,
	book.NewService,
	cart.NewService,
	ledger.NewService,
)

var applicationSet = wire.NewSet(
	validation.New,
	provideBookSettings,
	provideOrderSettings,
	provideLedgerSettings,

	appbook.NewPublishBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewManageStockUseCase,
	appbook.NewSetActiveUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewGetBookUseCase,

	appcart.NewAddItemUseCase,
	appcart.NewSetQuantityUseCase,
	appcart.NewRemoveItemUseCase,
	appcart.NewGetCartUseCase,

	apporder.NewCreateOrderUseCase,
	apporder.NewUpdateStatusUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewListOrdersUseCase,

	appledger.NewGetTreasuryUseCase,
	appuser.NewGetProfileUseCase,
)

var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	provideCheckoutLimiter,

	handler.NewBookHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	handler.NewLedgerHandler,
	handler.NewUserHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideRouter,

	grpcapi.NewOrderServer,
	provideGRPCServer,
)

// InitializeApp 组装HTTP与gRPC服务
// cleanup按创建的逆序释放数据库、Redis、MQ连接与限流器
func InitializeApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
