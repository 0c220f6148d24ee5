// Package router 组装gin引擎：全局中间件、公开路由、登录路由、管理员路由
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xiebiao/bookclub/docs"
	"github.com/xiebiao/bookclub/internal/interface/http/handler"
	"github.com/xiebiao/bookclub/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
	"github.com/xiebiao/bookclub/pkg/logger"
	"github.com/xiebiao/bookclub/pkg/ratelimit"
	"github.com/xiebiao/bookclub/pkg/response"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	Book   *handler.BookHandler
	Cart   *handler.CartHandler
	Order  *handler.OrderHandler
	Ledger *handler.LedgerHandler
	User   *handler.UserHandler
}

// Options 路由选项
type Options struct {
	Mode            string        // debug | release | test
	RequestTimeout  time.Duration // 0表示不设置
	CheckoutLimiter *ratelimit.KeyedRateLimiter
	Swagger         bool // release模式建议关闭
}

// New 创建gin引擎
// 中间件顺序：RequestLogger → Recovery → Metrics → Timeout → 路由组（Auth → Admin/RateLimit） → Handler
func New(opts Options, h Handlers, auth *middleware.AuthMiddleware, log *logger.Logger) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			log.WithContext(c.Request.Context()).Error("请求处理panic", "panic", recovered, "path", c.Request.URL.Path)
			response.AbortWithError(c, apperrors.ErrInternal)
		}),
		middleware.Metrics(),
		middleware.Timeout(opts.RequestTimeout),
	)

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, apperrors.ErrNotFound)
	})

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	books := v1.Group("/books")
	{
		books.GET("", h.Book.ListBooks)
		books.GET("/:id", auth.OptionalAuth(), h.Book.GetBook)

		admin := books.Group("", auth.RequireAuth(), auth.RequireAdmin())
		admin.POST("", h.Book.PublishBook)
		admin.PUT("/:id", h.Book.UpdateBook)
		admin.POST("/:id/stock", h.Book.ManageStock)
		admin.POST("/:id/deactivate", h.Book.Deactivate)
		admin.POST("/:id/reactivate", h.Book.Reactivate)
	}

	cart := v1.Group("/cart", auth.RequireAuth())
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:id", h.Cart.SetQuantity)
		cart.DELETE("/items/:id", h.Cart.RemoveItem)
	}

	orders := v1.Group("/orders", auth.RequireAuth())
	{
		checkout := []gin.HandlerFunc{h.Order.CreateOrder}
		if opts.CheckoutLimiter != nil {
			checkout = append([]gin.HandlerFunc{middleware.RateLimitPerUser(opts.CheckoutLimiter)}, checkout...)
		}
		orders.POST("", checkout...)
		orders.GET("", h.Order.ListOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.PUT("/:id/status", auth.RequireAdmin(), h.Order.UpdateStatus)
	}

	v1.GET("/ledger", auth.RequireAuth(), auth.RequireAdmin(), h.Ledger.GetTreasury)
	v1.GET("/me", auth.RequireAuth(), h.User.Me)

	return r
}
