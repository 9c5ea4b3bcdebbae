package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	chelper "github.com/phitthaya2548/lottobackend/common/helper"

	"github.com/phitthaya2548/lottobackend/common/constant"
	infmysql "github.com/phitthaya2548/lottobackend/internal/infra/mysql"
	"github.com/phitthaya2548/lottobackend/internal/model"
)

// WalletBalanceOutput 余额查询输出
type WalletBalanceOutput struct {
	UserID  int64  `json:"user_id"`
	Balance string `json:"balance"`
}

// DepositInput 充值输入
type DepositInput struct {
	UserID  int64
	Amount  string
	TraceID string
}

// DepositOutput 充值输出
type DepositOutput struct {
	UserID  int64  `json:"user_id"`
	Amount  string `json:"amount"`
	Balance string `json:"balance"`
}

// WalletTxItem 账变明细项
type WalletTxItem struct {
	ID            int64  `json:"id"`
	TxType        string `json:"tx_type"`
	TxDesc        string `json:"tx_desc"`
	Direction     string `json:"direction"`
	Amount        string `json:"amount"`
	RefType       string `json:"ref_type,omitempty"`
	RefID         int64  `json:"ref_id,omitempty"`
	Note          string `json:"note,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	CreatedAtText string `json:"created_at_text,omitempty"`
}

// WalletTxSummaryView 收支汇总视图
type WalletTxSummaryView struct {
	TotalIn  string `json:"total_in"`
	TotalOut string `json:"total_out"`
	Net      string `json:"net"`
}

// WalletTxListOutput 账变明细输出：汇总 + 当前分页
type WalletTxListOutput struct {
	Summary WalletTxSummaryView `json:"summary"`
	Items   []WalletTxItem      `json:"items"`
}

type WalletService interface {
	GetBalance(ctx context.Context, userID int64) (*WalletBalanceOutput, error)
	Deposit(ctx context.Context, in DepositInput) (*DepositOutput, error)
	ListTransactions(ctx context.Context, userID int64, txType string, limit, offset uint) (*WalletTxListOutput, error)
}

type walletService struct{}

func NewWalletService() WalletService { return &walletService{} }

// GetBalance 查询余额；未开钱包视为余额 0
func (s *walletService) GetBalance(ctx context.Context, userID int64) (*WalletBalanceOutput, error) {
	if userID <= 0 {
		return nil, ErrBadRequest
	}
	w, err := model.GetWalletByUserID(ctx, infmysql.SQLX(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &WalletBalanceOutput{UserID: userID, Balance: "0.00"}, nil
		}
		return nil, err
	}
	return &WalletBalanceOutput{UserID: userID, Balance: chelper.TrimDecimal(w.Balance)}, nil
}

// Deposit 充值：钱包不存在时就地创建，账变与余额同事务落库
func (s *walletService) Deposit(ctx context.Context, in DepositInput) (*DepositOutput, error) {
	if in.UserID <= 0 {
		return nil, ErrBadRequest
	}
	amount, ok := chelper.ParseAmount(in.Amount)
	if !ok || !amount.IsPositive() {
		return nil, ErrBadRequest
	}

	txCtx := ctx
	if _, has := ctx.Deadline(); !has {
		c, cancel := context.WithTimeout(ctx, defaultTxTimeout)
		txCtx = c
		defer cancel()
	}
	tx, err := infmysql.SQLX().BeginTxx(txCtx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	wallet, err := lockOrCreateWallet(txCtx, tx, in.UserID)
	if err != nil {
		return nil, err
	}

	newBalance := wallet.Balance.Add(amount)
	if err := model.UpdateWalletBalance(txCtx, tx, wallet.ID, newBalance); err != nil {
		return nil, err
	}

	depositTx := &model.WalletTransaction{
		WalletID: wallet.ID,
		TxType:   constant.TxTypeDeposit,
		Amount:   amount,
		Note:     "deposit",
		TraceID:  in.TraceID,
	}
	if err := depositTx.Insert(txCtx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	fmt.Printf("[Wallet] 充值成功: user_id=%d, amount=%s, balance=%s, trace_id=%s\n",
		in.UserID, chelper.TrimDecimal(amount), chelper.TrimDecimal(newBalance), in.TraceID)

	return &DepositOutput{
		UserID:  in.UserID,
		Amount:  chelper.TrimDecimal(amount),
		Balance: chelper.TrimDecimal(newBalance),
	}, nil
}

// ListTransactions 分页倒序账变明细 + 全量收支汇总，txType 为空表示全部类型
func (s *walletService) ListTransactions(ctx context.Context, userID int64, txType string, limit, offset uint) (*WalletTxListOutput, error) {
	if userID <= 0 {
		return nil, ErrBadRequest
	}
	if txType != "" && !constant.IsValidTxType(txType) {
		return nil, ErrBadRequest
	}

	db := infmysql.SQLX()
	w, err := model.GetWalletByUserID(ctx, db, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &WalletTxListOutput{
				Summary: WalletTxSummaryView{TotalIn: "0", TotalOut: "0", Net: "0"},
				Items:   []WalletTxItem{},
			}, nil
		}
		return nil, err
	}

	// 汇总覆盖全量流水，不随分页与类型过滤变化
	sum, err := model.SumWalletTxSummary(ctx, db, w.ID)
	if err != nil {
		return nil, err
	}

	rows, err := model.ListWalletTransactions(ctx, db, w.ID, txType, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]WalletTxItem, 0, len(rows))
	for _, r := range rows {
		item := WalletTxItem{
			ID:            r.ID,
			TxType:        r.TxType,
			TxDesc:        constant.GetTxTypeDesc(r.TxType),
			Direction:     txDirection(r.TxType),
			Amount:        chelper.TrimDecimal(r.Amount),
			RefType:       r.RefType,
			Note:          r.Note,
			CreatedAt:     r.CreatedAt,
			CreatedAtText: chelper.FormatMillisToYMDHMS(r.CreatedAt),
		}
		if r.RefID.Valid {
			item.RefID = r.RefID.Int64
		}
		items = append(items, item)
	}

	return &WalletTxListOutput{
		Summary: WalletTxSummaryView{
			TotalIn:  chelper.TrimDecimal(sum.TotalIn),
			TotalOut: chelper.TrimDecimal(sum.TotalOut),
			Net:      chelper.TrimDecimal(sum.Net),
		},
		Items: items,
	}, nil
}

// txDirection 账变方向标识，便于前端渲染收支
func txDirection(txType string) string {
	switch {
	case constant.IsIncomeType(txType):
		return "IN"
	case constant.IsExpenseType(txType):
		return "OUT"
	default:
		return ""
	}
}
