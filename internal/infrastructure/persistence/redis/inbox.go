package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookclub/pkg/errors"
)

// Inbox 用户通知收件箱
// 每个用户一个List，新消息在头部，只保留最近size条
type Inbox struct {
	client redis.Cmdable
	size   int64
}

// NewInbox 创建收件箱，size<=0时使用100
func NewInbox(client redis.Cmdable, size int64) *Inbox {
	if size <= 0 {
		size = 100
	}
	return &Inbox{client: client, size: size}
}

func inboxKey(userID uint) string {
	return fmt.Sprintf("bookclub:inbox:%d", userID)
}

// Push LPUSH + LTRIM 在一个事务管道中执行
func (i *Inbox) Push(ctx context.Context, userID uint, payload []byte) error {
	key := inboxKey(userID)
	_, err := i.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, i.size-1)
		return nil
	})
	if err != nil {
		return apperrors.ErrRedisError.WithErr(err)
	}
	return nil
}

// Latest 最近n条，最新的在前
func (i *Inbox) Latest(ctx context.Context, userID uint, n int64) ([]string, error) {
	if n <= 0 || n > i.size {
		n = i.size
	}
	items, err := i.client.LRange(ctx, inboxKey(userID), 0, n-1).Result()
	if err != nil {
		return nil, apperrors.ErrRedisError.WithErr(err)
	}
	return items, nil
}
