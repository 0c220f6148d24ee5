// Package uow 事务边界
//
// 下单、采购入库等跨聚合写操作通过TxManager包在一个事务里：
// fn返回error（包括ctx取消/超时）时全部回滚，返回nil时提交。
// 仓储从ctx中取出事务，嵌套调用Transaction时加入外层事务。
package uow

import "context"

// TxManager 事务管理器
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
