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

// Wallet 对应 wallets 表，每个用户至多一个钱包（user_id 唯一）
type Wallet struct {
	ID        int64           `db:"id"`
	UserID    int64           `db:"user_id"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt int64           `db:"created_at"`
	UpdatedAt int64           `db:"updated_at"`
}

// WalletTransaction 对应 wallet_transactions 表（追加式账本）
// tx_type: PURCHASE=购票（金额为负） PRIZE=兑奖（金额为正） DEPOSIT=充值
// (wallet_id, ref_type, ref_id, tx_type) 唯一，
// 同一张票的 PRIZE 账变只允许出现一次，这是防止并发重复派奖的兜底
type WalletTransaction struct {
	ID        int64           `db:"id"`
	WalletID  int64           `db:"wallet_id"`
	TxType    string          `db:"tx_type"`
	Amount    decimal.Decimal `db:"amount"` // 带符号：扣款为负，入账为正
	RefType   string          `db:"ref_type"`
	RefID     sql.NullInt64   `db:"ref_id"`
	Note      string          `db:"note"`
	TraceID   string          `db:"trace_id"`
	CreatedAt int64           `db:"created_at"`
}

// 账变引用类型
const (
	RefTypeTicket = "ticket"
	RefTypeDraw   = "draw"
)

const walletColumns = `id, user_id, balance, created_at, updated_at`

// GetWalletForUpdate 按用户ID查钱包并加锁，必须在事务中调用
func GetWalletForUpdate(ctx context.Context, exec sqlx.ExtContext, userID int64) (*Wallet, error) {
	sqlStr := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = ? FOR UPDATE`
	var w Wallet
	if err := sqlx.GetContext(ctx, exec, &w, sqlStr, userID); err != nil {
		return nil, err
	}
	return &w, nil
}

// GetWalletByUserID 按用户ID查钱包（不加锁）
func GetWalletByUserID(ctx context.Context, exec sqlx.ExtContext, userID int64) (*Wallet, error) {
	sqlStr := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = ? LIMIT 1`
	var w Wallet
	if err := sqlx.GetContext(ctx, exec, &w, sqlStr, userID); err != nil {
		return nil, err
	}
	return &w, nil
}

// Insert 创建钱包，user_id 唯一键冲突由调用方处理（并发懒建场景）
func (w *Wallet) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	w.CreatedAt = now
	w.UpdatedAt = now

	sqlStr := `INSERT INTO wallets (user_id, balance, created_at, updated_at) VALUES (?, ?, ?, ?)`
	res, err := exec.ExecContext(ctx, sqlStr, w.UserID, w.Balance, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	w.ID = id
	return nil
}

// UpdateWalletBalance 以调用方计算好的新余额覆盖写，必须在持有行锁时调用
func UpdateWalletBalance(ctx context.Context, exec sqlx.ExtContext, walletID int64, newBalance decimal.Decimal) error {
	now := time.Now().UnixMilli()
	sqlStr := `UPDATE wallets SET balance = ?, updated_at = ? WHERE id = ?`
	_, err := exec.ExecContext(ctx, sqlStr, newBalance, now, walletID)
	return err
}

// DebitWalletIfEnough 条件扣款：余额充足才扣，返回是否扣成功
func DebitWalletIfEnough(ctx context.Context, exec sqlx.ExtContext, walletID int64, amount decimal.Decimal) (bool, error) {
	now := time.Now().UnixMilli()
	sqlStr := `UPDATE wallets SET balance = balance - ?, updated_at = ? WHERE id = ? AND balance >= ?`
	res, err := exec.ExecContext(ctx, sqlStr, amount, now, walletID, amount)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Insert 追加一条账变记录
func (t *WalletTransaction) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	t.CreatedAt = now

	sqlStr := `INSERT INTO wallet_transactions (wallet_id, tx_type, amount, ref_type, ref_id, note, trace_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := exec.ExecContext(ctx, sqlStr,
		t.WalletID, t.TxType, t.Amount, t.RefType, t.RefID, t.Note, t.TraceID, t.CreatedAt)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	t.ID = id
	return nil
}

// ListWalletTransactions 分页倒序列出账变
func ListWalletTransactions(ctx context.Context, db *sqlx.DB, walletID int64, txType string, limit, offset uint) ([]WalletTransaction, error) {
	arg := common.QueryArg{
		Db:     db,
		Table:  "wallet_transactions",
		Fields: common.EnumFields(WalletTransaction{}),
		Ex:     []g.Expression{g.C("wallet_id").Eq(walletID)},
		Order:  []exp.OrderedExpression{g.C("id").Desc()},
		Offset: offset,
		Limit:  limit,
	}
	if txType != "" {
		arg.Ex = append(arg.Ex, g.C("tx_type").Eq(txType))
	}

	var list []WalletTransaction
	if err := common.SelectAllCtx(ctx, &list, arg); err != nil {
		return nil, err
	}
	return list, nil
}

// SumWalletTxByType 按类型汇总账变总额（管理端报表）
func SumWalletTxByType(db *sqlx.DB, txType string) (float64, error) {
	return common.SumInfo(db, "wallet_transactions", "amount", g.C("tx_type").Eq(txType))
}

// WalletTxSummary 钱包收支汇总
type WalletTxSummary struct {
	TotalIn  decimal.Decimal `db:"total_in"`  // 入账合计（正数）
	TotalOut decimal.Decimal `db:"total_out"` // 出账合计（取正）
	Net      decimal.Decimal `db:"net"`       // 净额
}

// SumWalletTxSummary 单钱包收支汇总，一条 SUM(CASE) 查询算齐
func SumWalletTxSummary(ctx context.Context, db *sqlx.DB, walletID int64) (*WalletTxSummary, error) {
	sqlStr := `SELECT
		COALESCE(SUM(CASE WHEN amount > 0 THEN amount END), 0) AS total_in,
		COALESCE(SUM(CASE WHEN amount < 0 THEN -amount END), 0) AS total_out,
		COALESCE(SUM(amount), 0) AS net
		FROM wallet_transactions WHERE wallet_id = ?`
	var s WalletTxSummary
	if err := db.GetContext(ctx, &s, sqlStr, walletID); err != nil {
		return nil, err
	}
	return &s, nil
}
