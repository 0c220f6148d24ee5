package grpc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/xiebiao/bookclub/internal/domain/user"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
	"github.com/xiebiao/bookclub/pkg/jwt"
	"github.com/xiebiao/bookclub/pkg/logger"
)

// errorDomain ErrorInfo.Domain
const errorDomain = "bookclub"

// Caller 已认证的调用方
type Caller struct {
	UserID uint
	Email  string
	Role   string
}

func (c Caller) IsAdmin() bool { return c.Role == string(user.RoleAdmin) }

type callerKey struct{}

func withCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

func callerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// RevocationList 已吊销Token查询
type RevocationList interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthInterceptor 从metadata的authorization取Bearer Token
// 只保护订单服务，健康检查与反射不需要Token
func AuthInterceptor(jwtManager *jwt.Manager, revoked RevocationList) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, "/"+ServiceName+"/") {
			return handler(ctx, req)
		}
		token, ok := bearerToken(ctx)
		if !ok {
			return nil, toStatus(apperrors.ErrUnauthorized)
		}
		if revoked != nil {
			isRevoked, err := revoked.IsRevoked(ctx, token)
			if err != nil {
				return nil, toStatus(apperrors.ErrRedisError.WithErr(err))
			}
			if isRevoked {
				return nil, toStatus(apperrors.ErrTokenExpired)
			}
		}
		claims, err := jwtManager.ParseToken(token)
		if err != nil {
			return nil, toStatus(err)
		}
		return handler(withCaller(ctx, Caller{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}), req)
	}
}

func bearerToken(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", false
	}
	scheme, token, ok := strings.Cut(values[0], " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// ErrorInterceptor 把业务错误转换为gRPC状态码，附带ErrorInfo
func ErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			return nil, toStatus(err)
		}
		return resp, nil
	}
}

// LoggingInterceptor 记录方法、耗时与状态码
func LoggingInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				log.WithContext(ctx).Error("gRPC处理panic", "method", info.FullMethod, "panic", r)
				err = toStatus(apperrors.ErrInternal)
			}

			code := status.Code(err)
			attrs := []any{"method", info.FullMethod, "code", code.String(), "latency", time.Since(start)}
			if code == codes.Internal || code == codes.Unknown {
				log.WithContext(ctx).Error("gRPC请求", append(attrs, "error", err)...)
				return
			}
			log.WithContext(ctx).Info("gRPC请求", attrs...)
		}()
		return handler(ctx, req)
	}
}

// toStatus 已经是gRPC状态的错误原样返回
func toStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	appErr := apperrors.GetAppError(err)
	st := status.New(codeFor(appErr), appErr.Message)

	info := &errdetails.ErrorInfo{
		Reason:   strconv.Itoa(appErr.Code),
		Domain:   errorDomain,
		Metadata: map[string]string{},
	}
	for k, v := range appErr.Details {
		info.Metadata[k] = stringify(v)
	}
	if detailed, derr := st.WithDetails(info); derr == nil {
		st = detailed
	}
	return st.Err()
}

func codeFor(e *apperrors.AppError) codes.Code {
	if errors.Is(e, apperrors.ErrTimeout) {
		return codes.DeadlineExceeded
	}
	switch e.Kind() {
	case apperrors.KindValidation:
		return codes.InvalidArgument
	case apperrors.KindUnauthorized:
		return codes.Unauthenticated
	case apperrors.KindForbidden:
		return codes.PermissionDenied
	case apperrors.KindNotFound:
		return codes.NotFound
	case apperrors.KindConflict:
		return codes.AlreadyExists
	case apperrors.KindInsufficientStock:
		return codes.FailedPrecondition
	case apperrors.KindTooManyRequests:
		return codes.ResourceExhausted
	default:
		return codes.Internal
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
