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

// Ticket 对应 tickets 表
// status: SOLD=已售 REDEEMED=已兑奖
// (draw_id, ticket_number) 唯一，同一期同一号码只能卖出一张
type Ticket struct {
	ID           int64           `db:"id"`
	DrawID       int64           `db:"draw_id"`
	TicketNumber string          `db:"ticket_number"` // 6位数字串，允许前导0
	Price        decimal.Decimal `db:"price"`
	Status       string          `db:"status"`
	BuyerUserID  sql.NullInt64   `db:"buyer_user_id"`
	SoldAt       int64           `db:"sold_at"`
	CreatedAt    int64           `db:"created_at"`
	UpdatedAt    int64           `db:"updated_at"`
}

const ticketColumns = `id, draw_id, ticket_number, price, status, buyer_user_id, sold_at, created_at, updated_at`

// Insert 插入一张票；(draw_id, ticket_number) 唯一键冲突由调用方处理
func (t *Ticket) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.SoldAt == 0 {
		t.SoldAt = now
	}
	if t.Status == "" {
		t.Status = "SOLD"
	}

	sqlStr := `INSERT INTO tickets (draw_id, ticket_number, price, status, buyer_user_id, sold_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := exec.ExecContext(ctx, sqlStr,
		t.DrawID, t.TicketNumber, t.Price, t.Status, t.BuyerUserID, t.SoldAt, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	t.ID = id
	return nil
}

// GetTicket 按期次与号码查票（不加锁）
func GetTicket(ctx context.Context, exec sqlx.ExtContext, drawID int64, number string) (*Ticket, error) {
	sqlStr := `SELECT ` + ticketColumns + ` FROM tickets
		WHERE draw_id = ? AND ticket_number = ? LIMIT 1`
	var t Ticket
	if err := sqlx.GetContext(ctx, exec, &t, sqlStr, drawID, number); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTicketForUpdate 按期次与号码查票并加锁，必须在事务中调用
func GetTicketForUpdate(ctx context.Context, exec sqlx.ExtContext, drawID int64, number string) (*Ticket, error) {
	sqlStr := `SELECT ` + ticketColumns + ` FROM tickets
		WHERE draw_id = ? AND ticket_number = ? FOR UPDATE`
	var t Ticket
	if err := sqlx.GetContext(ctx, exec, &t, sqlStr, drawID, number); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListSoldNumbersForUpdate 锁定某期全部售出票并返回号码列表，必须在事务中调用
// 结算用 SOLD_ONLY 策略时先锁售出池，防止抽号与售票并发交错
func ListSoldNumbersForUpdate(ctx context.Context, exec sqlx.ExtContext, drawID int64) ([]string, error) {
	sqlStr := `SELECT ticket_number FROM tickets WHERE draw_id = ? AND status = 'SOLD' FOR UPDATE`
	var numbers []string
	if err := sqlx.SelectContext(ctx, exec, &numbers, sqlStr, drawID); err != nil {
		return nil, err
	}
	return numbers, nil
}

// MarkTicketRedeemed 将票置为 REDEEMED
func MarkTicketRedeemed(ctx context.Context, exec sqlx.ExtContext, ticketID int64) error {
	now := time.Now().UnixMilli()
	sqlStr := `UPDATE tickets SET status = 'REDEEMED', updated_at = ? WHERE id = ?`
	_, err := exec.ExecContext(ctx, sqlStr, now, ticketID)
	return err
}

// TicketNumberTaken 查询某期某号码是否已售出（购票前可用性检查，非权威）
func TicketNumberTaken(db *sqlx.DB, drawID int64, number string) (bool, error) {
	cnt, err := common.Count(db, "tickets",
		g.C("draw_id").Eq(drawID),
		g.C("ticket_number").Eq(number))
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// CountSoldTickets 某期售出总数
func CountSoldTickets(db *sqlx.DB, drawID int64) (int, error) {
	return common.Count(db, "tickets", g.C("draw_id").Eq(drawID))
}

// CountTicketsByBuyer 某买家名下的票总数（个人中心）
func CountTicketsByBuyer(db *sqlx.DB, buyerUserID int64) (int, error) {
	return common.Count(db, "tickets", g.C("buyer_user_id").Eq(buyerUserID))
}

// ListTicketsByBuyer 按买家列出票，drawID 为 0 表示不过滤期次
func ListTicketsByBuyer(ctx context.Context, db *sqlx.DB, buyerUserID, drawID int64, limit, offset uint) ([]Ticket, error) {
	arg := common.QueryArg{
		Db:     db,
		Table:  "tickets",
		Fields: common.EnumFields(Ticket{}),
		Ex:     []g.Expression{g.C("buyer_user_id").Eq(buyerUserID)},
		Order:  []exp.OrderedExpression{g.C("id").Desc()},
		Offset: offset,
		Limit:  limit,
	}
	if drawID > 0 {
		arg.Ex = append(arg.Ex, g.C("draw_id").Eq(drawID))
	}

	var list []Ticket
	if err := common.SelectAllCtx(ctx, &list, arg); err != nil {
		return nil, err
	}
	return list, nil
}

// ListTicketsByDraw 列出某期全部票（管理端用）
func ListTicketsByDraw(ctx context.Context, db *sqlx.DB, drawID int64, limit, offset uint) ([]Ticket, error) {
	arg := common.QueryArg{
		Db:     db,
		Table:  "tickets",
		Fields: common.EnumFields(Ticket{}),
		Ex:     []g.Expression{g.C("draw_id").Eq(drawID)},
		Order:  []exp.OrderedExpression{g.C("id").Asc()},
		Offset: offset,
		Limit:  limit,
	}

	var list []Ticket
	if err := common.SelectAllCtx(ctx, &list, arg); err != nil {
		return nil, err
	}
	return list, nil
}
