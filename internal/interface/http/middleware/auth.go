package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookclub/internal/domain/user"
	apperrors "github.com/xiebiao/bookclub/pkg/errors"
	"github.com/xiebiao/bookclub/pkg/jwt"
	"github.com/xiebiao/bookclub/pkg/response"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxRole   = "role"
)

// ErrTokenRevoked Token已被吊销
var ErrTokenRevoked = apperrors.New(apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")

// RevocationList 已吊销Token的查询接口（Redis黑名单实现）
type RevocationList interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// noRevocations 未启用Redis时没有黑名单
type noRevocations struct{}

func (noRevocations) IsRevoked(context.Context, string) (bool, error) { return false, nil }

// AuthMiddleware JWT认证中间件
// 1. 从Authorization头提取Bearer Token
// 2. 检查黑名单
// 3. 校验签名与有效期
// 4. 把用户ID、邮箱、角色写入gin.Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	revoked    RevocationList
}

// NewAuthMiddleware 创建认证中间件，revoked为nil时不检查黑名单
func NewAuthMiddleware(jwtManager *jwt.Manager, revoked RevocationList) *AuthMiddleware {
	if revoked == nil {
		revoked = noRevocations{}
	}
	return &AuthMiddleware{jwtManager: jwtManager, revoked: revoked}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.AbortWithError(c, apperrors.ErrUnauthorized)
			return
		}
		if err := m.authenticate(c, token); err != nil {
			response.AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// OptionalAuth 有Token时解析，无Token或Token无效时按匿名用户继续
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			_ = m.authenticate(c, token)
		}
		c.Next()
	}
}

// RequireAdmin 要求管理员角色，需放在RequireAuth之后
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			response.AbortWithError(c, apperrors.ErrForbidden)
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, token string) error {
	revoked, err := m.revoked.IsRevoked(c.Request.Context(), token)
	if err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	if revoked {
		return ErrTokenRevoked
	}

	claims, err := m.jwtManager.ParseToken(token)
	if err != nil {
		return err
	}

	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxRole, claims.Role)
	return nil
}

// bearerToken 解析 "Authorization: Bearer <token>"
func bearerToken(c *gin.Context) (string, bool) {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// GetUserID 当前登录用户ID，未登录时为0
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserID); ok {
		if uid, ok := v.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetEmail 当前登录用户邮箱
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// IsAdmin 当前用户是否管理员
func IsAdmin(c *gin.Context) bool {
	return c.GetString(ctxRole) == string(user.RoleAdmin)
}

// MustGetUserID 用于RequireAuth之后的Handler
func MustGetUserID(c *gin.Context) uint {
	userID := GetUserID(c)
	if userID == 0 {
		panic("user_id not found in context")
	}
	return userID
}
