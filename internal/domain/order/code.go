package order

import (
	"context"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// CodeAlphabet 订单号字符集
	CodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// CodeLength 订单号长度
	CodeLength = 6
)

// CodeGenerator 订单号生成函数（测试中可替换为固定序列）
type CodeGenerator func() (string, error)

// GenerateCode 生成6位大写字母数字订单号
// 36^6约21亿种组合，唯一性由NextUniqueCode重试 + 唯一索引保证
func GenerateCode() (string, error) {
	return gonanoid.Generate(CodeAlphabet, CodeLength)
}

// NextUniqueCode 生成仓储中尚未使用的订单号，最多尝试attempts次
func NextUniqueCode(ctx context.Context, gen CodeGenerator, repo Repository, attempts int) (string, error) {
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		code, err := gen()
		if err != nil {
			return "", ErrCodeExhausted.WithErr(err)
		}
		exists, err := repo.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeExhausted.WithErr(fmt.Errorf("%d次尝试均冲突", attempts))
}
