package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/xiebiao/bookclub/pkg/jwt"
	"github.com/xiebiao/bookclub/pkg/logger"
)

// NewServer 创建gRPC服务器并注册订单服务、健康检查与反射
// 拦截器顺序：Logging → Auth → Error → 业务方法
func NewServer(srv *OrderServer, jwtManager *jwt.Manager, revoked RevocationList, log *logger.Logger) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(log),
		AuthInterceptor(jwtManager, revoked),
		ErrorInterceptor(),
	))
	RegisterOrderServiceServer(s, srv)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	// 便于grpcurl调试
	reflection.Register(s)
	return s
}
