package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突错误
// MySQL错误码:
// - 1062: Duplicate entry 'xxx' for key 'yyy'
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 兼容检查:MySQL与SQLite的错误信息
	return strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// getDB 从context获取事务DB,如果没有则使用默认DB
// 教学要点:事务传递机制
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// supportsRowLock 当前方言是否支持SELECT FOR UPDATE
// SQLite(测试环境)不支持行锁,依赖库存条件更新保证不超卖
func supportsRowLock(db *gorm.DB) bool {
	return db.Dialector.Name() == "mysql"
}
