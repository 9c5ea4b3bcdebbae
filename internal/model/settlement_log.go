package model

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// SettlementLog 结算日志表（draw_number 唯一，防止同一期重复结算）
type SettlementLog struct {
	ID         int64   `db:"id"`          // 自增ID
	DrawID     int64   `db:"draw_id"`     // 期次内部ID
	DrawNumber int64   `db:"draw_number"` // 期号
	SourceMode string  `db:"source_mode"` // ALL | SOLD_ONLY
	Win1Full   string  `db:"win1_full"`   // 一等奖号码
	Win2Full   string  `db:"win2_full"`   // 二等奖号码
	Win3Full   string  `db:"win3_full"`   // 三等奖号码
	WinLast3   string  `db:"win_last3"`   // 末三位奖号码
	WinLast2   string  `db:"win_last2"`   // 末二位奖号码
	SoldCount  int     `db:"sold_count"`  // 结算时售出票数
	TotalSales float64 `db:"total_sales"` // 本期销售额
	Operator   string  `db:"operator"`    // 操作人
	TraceID    string  `db:"trace_id"`    // 链路追踪ID
	CreatedAt  int64   `db:"created_at"`  // 创建时间（13位毫秒时间戳）
}

// CreateSettlementLog 创建结算日志（利用唯一索引防止重复结算）
// 如果返回唯一键冲突错误，说明该期已经结算过
func CreateSettlementLog(ctx context.Context, exec sqlx.ExtContext, log *SettlementLog) error {
	now := time.Now().UnixMilli()
	log.CreatedAt = now

	sqlStr := `INSERT INTO settlement_log (draw_id, draw_number, source_mode, win1_full, win2_full, win3_full, win_last3, win_last2, sold_count, total_sales, operator, trace_id, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := exec.ExecContext(ctx, sqlStr,
		log.DrawID, log.DrawNumber, log.SourceMode,
		log.Win1Full, log.Win2Full, log.Win3Full, log.WinLast3, log.WinLast2,
		log.SoldCount, log.TotalSales, log.Operator, log.TraceID, log.CreatedAt)

	if err != nil {
		return err
	}

	id, _ := result.LastInsertId()
	log.ID = id

	return nil
}

// GetSettlementLog 按期号查询结算日志
func GetSettlementLog(ctx context.Context, db *sqlx.DB, drawNumber int64) (*SettlementLog, error) {
	sqlStr := `SELECT id, draw_id, draw_number, source_mode, win1_full, win2_full, win3_full, win_last3, win_last2, sold_count, total_sales, operator, trace_id, created_at
	           FROM settlement_log WHERE draw_number = ? LIMIT 1`

	var log SettlementLog
	if err := db.GetContext(ctx, &log, sqlStr, drawNumber); err != nil {
		return nil, err
	}

	return &log, nil
}
