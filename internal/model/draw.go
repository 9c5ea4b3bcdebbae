package model

import (
	"context"
	"database/sql"
	"time"

	g "github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/phitthaya2548/lottobackend/common"
)

// Draw 对应 draws 表（期次）
// status: OPEN=在售 CLOSED=已开奖
// 中奖号码在开奖前全部为 NULL，开奖后一次性写入且不再变化
type Draw struct {
	ID           int64           `db:"id"`
	DrawDate     string          `db:"draw_date"`   // 开奖日期 yyyy-MM-dd
	DrawNumber   int64           `db:"draw_number"` // 期号，全局递增且唯一
	SourceMode   string          `db:"source_mode"` // ALL | SOLD_ONLY
	Win1Full     sql.NullString  `db:"win1_full"`   // 一等奖号码（6位）
	Win2Full     sql.NullString  `db:"win2_full"`   // 二等奖号码（6位）
	Win3Full     sql.NullString  `db:"win3_full"`   // 三等奖号码（6位）
	WinLast3     sql.NullString  `db:"win_last3"`   // 末三位奖号码（3位）
	WinLast2     sql.NullString  `db:"win_last2"`   // 末二位奖号码（2位）
	Prize1Amount decimal.Decimal `db:"prize1_amount"`
	Prize2Amount decimal.Decimal `db:"prize2_amount"`
	Prize3Amount decimal.Decimal `db:"prize3_amount"`
	Last3Amount  decimal.Decimal `db:"last3_amount"`
	Last2Amount  decimal.Decimal `db:"last2_amount"`
	Status       string          `db:"status"`
	CreatedAt    int64           `db:"created_at"`
	ClosedAt     sql.NullInt64   `db:"closed_at"`
}

const drawColumns = `id, draw_date, draw_number, source_mode,
	win1_full, win2_full, win3_full, win_last3, win_last2,
	prize1_amount, prize2_amount, prize3_amount, last3_amount, last2_amount,
	status, created_at, closed_at`

// FindOpenDrawForUpdate 取最早的 OPEN 期并加锁，必须在事务中调用
// 排序固定为 draw_date ASC, draw_number ASC，保证并发结算抢到同一行锁
func FindOpenDrawForUpdate(ctx context.Context, exec sqlx.ExtContext) (*Draw, error) {
	sqlStr := `SELECT ` + drawColumns + `
		FROM draws WHERE status = 'OPEN'
		ORDER BY draw_date ASC, draw_number ASC
		LIMIT 1 FOR UPDATE`

	var d Draw
	if err := sqlx.GetContext(ctx, exec, &d, sqlStr); err != nil {
		return nil, err
	}
	return &d, nil
}

// MaxDrawNumberForUpdate 返回当前最大期号并锁表尾，空表返回 0
// 自举新期号时必须在事务中调用，避免并发分配出相同期号
func MaxDrawNumberForUpdate(ctx context.Context, exec sqlx.ExtContext) (int64, error) {
	sqlStr := "SELECT COALESCE(MAX(draw_number), 0) FROM draws FOR UPDATE"
	var max int64
	if err := sqlx.GetContext(ctx, exec, &max, sqlStr); err != nil {
		return 0, err
	}
	return max, nil
}

// Insert 插入一个新期次（不带中奖号码）
func (d *Draw) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	d.CreatedAt = now
	if d.Status == "" {
		d.Status = "OPEN"
	}
	if d.SourceMode == "" {
		d.SourceMode = "ALL"
	}

	sqlStr := `INSERT INTO draws (draw_date, draw_number, source_mode,
		prize1_amount, prize2_amount, prize3_amount, last3_amount, last2_amount,
		status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := exec.ExecContext(ctx, sqlStr, d.DrawDate, d.DrawNumber, d.SourceMode,
		d.Prize1Amount, d.Prize2Amount, d.Prize3Amount, d.Last3Amount, d.Last2Amount,
		d.Status, d.CreatedAt)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	d.ID = id
	return nil
}

// DrawClose 开奖时一次性落库的全部字段
type DrawClose struct {
	Win1Full     string
	Win2Full     string
	Win3Full     string
	WinLast3     string
	WinLast2     string
	Prize1Amount decimal.Decimal
	Prize2Amount decimal.Decimal
	Prize3Amount decimal.Decimal
	Last3Amount  decimal.Decimal
	Last2Amount  decimal.Decimal
	SourceMode   string
}

// CloseDraw 写入全部中奖号码与奖金并置为 CLOSED
// 必须在同一事务内、且调用方已对该 OPEN 期持有行锁时调用
func CloseDraw(ctx context.Context, exec sqlx.ExtContext, id int64, c DrawClose) error {
	now := time.Now().UnixMilli()
	sqlStr := `UPDATE draws SET
		win1_full = ?, win2_full = ?, win3_full = ?, win_last3 = ?, win_last2 = ?,
		prize1_amount = ?, prize2_amount = ?, prize3_amount = ?, last3_amount = ?, last2_amount = ?,
		source_mode = ?, status = 'CLOSED', closed_at = ?
		WHERE id = ? AND status = 'OPEN'`
	res, err := exec.ExecContext(ctx, sqlStr,
		c.Win1Full, c.Win2Full, c.Win3Full, c.WinLast3, c.WinLast2,
		c.Prize1Amount, c.Prize2Amount, c.Prize3Amount, c.Last3Amount, c.Last2Amount,
		c.SourceMode, now, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetDrawByNumberForUpdate 按期号查询并加锁，必须在事务中调用
// 购票锁定期次行，和结算的期次行锁互斥
func GetDrawByNumberForUpdate(ctx context.Context, exec sqlx.ExtContext, drawNumber int64) (*Draw, error) {
	sqlStr := `SELECT ` + drawColumns + ` FROM draws WHERE draw_number = ? FOR UPDATE`
	var d Draw
	if err := sqlx.GetContext(ctx, exec, &d, sqlStr, drawNumber); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDrawByNumber 按期号查询（不加锁）
func GetDrawByNumber(ctx context.Context, exec sqlx.ExtContext, drawNumber int64) (*Draw, error) {
	sqlStr := `SELECT ` + drawColumns + ` FROM draws WHERE draw_number = ? LIMIT 1`
	var d Draw
	if err := sqlx.GetContext(ctx, exec, &d, sqlStr, drawNumber); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDrawByID 按内部ID查询（不加锁）
func GetDrawByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*Draw, error) {
	sqlStr := `SELECT ` + drawColumns + ` FROM draws WHERE id = ? LIMIT 1`
	var d Draw
	if err := sqlx.GetContext(ctx, exec, &d, sqlStr, id); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetCurrentOpenDraw 返回当前在售期（最早 OPEN，无锁读取）
func GetCurrentOpenDraw(ctx context.Context, exec sqlx.ExtContext) (*Draw, error) {
	sqlStr := `SELECT ` + drawColumns + `
		FROM draws WHERE status = 'OPEN'
		ORDER BY draw_date ASC, draw_number ASC
		LIMIT 1`
	var d Draw
	if err := sqlx.GetContext(ctx, exec, &d, sqlStr); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetLatestClosedDraw 返回最近一个已开奖期次
func GetLatestClosedDraw(ctx context.Context, exec sqlx.ExtContext) (*Draw, error) {
	sqlStr := `SELECT ` + drawColumns + `
		FROM draws WHERE status = 'CLOSED'
		ORDER BY draw_date DESC, draw_number DESC
		LIMIT 1`
	var d Draw
	if err := sqlx.GetContext(ctx, exec, &d, sqlStr); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDraws 分页倒序列出期次，status 为空表示不过滤
func ListDraws(ctx context.Context, db *sqlx.DB, status string, limit, offset uint) ([]Draw, error) {
	arg := common.QueryArg{
		Db:     db,
		Table:  "draws",
		Fields: common.EnumFields(Draw{}),
		Order: []exp.OrderedExpression{
			g.C("draw_date").Desc(),
			g.C("draw_number").Desc(),
		},
		Offset: offset,
		Limit:  limit,
	}
	if status != "" {
		arg.Ex = append(arg.Ex, g.C("status").Eq(status))
	}

	var list []Draw
	if err := common.SelectAllCtx(ctx, &list, arg); err != nil {
		return nil, err
	}
	return list, nil
}

// CountDraws 指定状态的期次总数（管理端报表）
func CountDraws(db *sqlx.DB, status string) (int, error) {
	if status == "" {
		return common.Count(db, "draws")
	}
	return common.Count(db, "draws", g.C("status").Eq(status))
}
