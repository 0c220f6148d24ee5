package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

const blacklistPrefix = "bookclub:blacklist:"

// TokenBlacklist 已吊销的访问令牌
// Token由用户服务签发，本服务只负责校验；吊销记录的过期时间与Token剩余有效期一致
type TokenBlacklist struct {
	client redis.Cmdable
}

// NewTokenBlacklist 创建令牌黑名单
func NewTokenBlacklist(client redis.Cmdable) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

// Revoke 吊销Token，ttl<=0时不写入（Token已过期）
func (b *TokenBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistPrefix+token, "revoked", ttl).Err(); err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	return nil
}

// IsRevoked 检查Token是否已被吊销
func (b *TokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, apperrors.ErrRedisError.WithErr(err)
	}
	return n > 0, nil
}
