package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	chelper "github.com/phitthaya2548/lottobackend/common/helper"

	"github.com/phitthaya2548/lottobackend/common/constant"
	"github.com/phitthaya2548/lottobackend/internal/config"
	infmysql "github.com/phitthaya2548/lottobackend/internal/infra/mysql"
	"github.com/phitthaya2548/lottobackend/internal/metrics"
	"github.com/phitthaya2548/lottobackend/internal/model"
)

// 默认单张票价，配置缺失时兜底
var defaultTicketPrice = decimal.NewFromInt(100)

// PurchaseInput 购票输入
// DrawNumber 为 0 时购买当前在售期
type PurchaseInput struct {
	UserID       int64
	DrawNumber   int64
	TicketNumber string
	TraceID      string
}

// PurchaseOutput 购票输出
type PurchaseOutput struct {
	TicketID     int64  `json:"ticket_id"`
	DrawNumber   int64  `json:"draw_number"`
	TicketNumber string `json:"ticket_number"`
	Price        string `json:"price"`
	Balance      string `json:"balance"`
	Status       string `json:"status"`
}

type PurchaseService interface {
	BuyTicket(ctx context.Context, in PurchaseInput) (*PurchaseOutput, error)
}

type purchaseService struct{}

func NewPurchaseService() PurchaseService { return &purchaseService{} }

// BuyTicket 购票主流程（单事务原子执行）：
// 期次行锁与结算互斥，保证售票不会插到抽号之后；
// 加锁顺序固定 期次 -> 票 -> 钱包，与兑奖/结算一致，避免死锁
func (s *purchaseService) BuyTicket(ctx context.Context, in PurchaseInput) (*PurchaseOutput, error) {
	start := time.Now()
	result := "fail"
	defer func() { metrics.RecordPurchase(result, start) }()

	fmt.Printf("[Purchase] 收到购票请求: user_id=%d, draw_number=%d, ticket_number=%s, trace_id=%s\n",
		in.UserID, in.DrawNumber, in.TicketNumber, in.TraceID)

	if in.UserID <= 0 || !isTicketNumber(in.TicketNumber) {
		return nil, ErrBadRequest
	}

	price := ticketPrice()

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

	// 期次行锁：结算会先锁同一行，因此购票与结算严格串行
	draw, err := lockTargetDraw(txCtx, tx, in.DrawNumber)
	if err != nil {
		return nil, err
	}
	if draw.Status != constant.DrawStatusOpen {
		fmt.Printf("[Purchase] 期次已停售: draw_number=%d, status=%s, trace_id=%s\n",
			draw.DrawNumber, draw.Status, in.TraceID)
		return nil, ErrDrawNotOpen
	}

	// 先占号：唯一键 (draw_id, ticket_number) 冲突即号码已售
	ticket := &model.Ticket{
		DrawID:       draw.ID,
		TicketNumber: in.TicketNumber,
		Price:        price,
		Status:       constant.TicketStatusSold,
		BuyerUserID:  sql.NullInt64{Int64: in.UserID, Valid: true},
	}
	if err := ticket.Insert(txCtx, tx); err != nil {
		if model.IsDuplicateKeyError(err) {
			fmt.Printf("[Purchase] 号码已售出: draw_number=%d, ticket_number=%s, trace_id=%s\n",
				draw.DrawNumber, in.TicketNumber, in.TraceID)
			return nil, ErrNumberTaken
		}
		return nil, err
	}

	wallet, err := lockOrCreateWallet(txCtx, tx, in.UserID)
	if err != nil {
		return nil, err
	}

	// 条件扣款，余额不足时 0 行生效，整体回滚（占的号一并释放）
	ok, err := model.DebitWalletIfEnough(txCtx, tx, wallet.ID, price)
	if err != nil {
		return nil, err
	}
	if !ok {
		fmt.Printf("[Purchase] 余额不足: user_id=%d, balance=%s, price=%s, trace_id=%s\n",
			in.UserID, chelper.TrimDecimal(wallet.Balance), chelper.TrimDecimal(price), in.TraceID)
		return nil, ErrInsufficientBalance
	}

	purchaseTx := &model.WalletTransaction{
		WalletID: wallet.ID,
		TxType:   constant.TxTypePurchase,
		Amount:   price.Neg(),
		RefType:  model.RefTypeTicket,
		RefID:    sql.NullInt64{Int64: ticket.ID, Valid: true},
		Note:     fmt.Sprintf("buy draw %d ticket %s", draw.DrawNumber, in.TicketNumber),
		TraceID:  in.TraceID,
	}
	if err := purchaseTx.Insert(txCtx, tx); err != nil {
		return nil, err
	}

	if err := model.CreateOutbox(txCtx, tx, "ticket_sold", fmt.Sprintf("ticket-%d", ticket.ID), map[string]any{
		"event":         "ticket_sold",
		"user_id":       in.UserID,
		"draw_number":   draw.DrawNumber,
		"ticket_number": in.TicketNumber,
		"price":         chelper.TrimDecimal(price),
		"trace_id":      in.TraceID,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		fmt.Printf("[Purchase] 提交事务失败: ticket_number=%s, error=%v, trace_id=%s\n",
			in.TicketNumber, err, in.TraceID)
		return nil, err
	}

	result = "success"
	newBalance := wallet.Balance.Sub(price)
	fmt.Printf("[Purchase] 购票成功: user_id=%d, draw_number=%d, ticket_number=%s, price=%s, trace_id=%s\n",
		in.UserID, draw.DrawNumber, in.TicketNumber, chelper.TrimDecimal(price), in.TraceID)

	return &PurchaseOutput{
		TicketID:     ticket.ID,
		DrawNumber:   draw.DrawNumber,
		TicketNumber: in.TicketNumber,
		Price:        chelper.TrimDecimal(price),
		Balance:      chelper.TrimDecimal(newBalance),
		Status:       constant.TicketStatusSold,
	}, nil
}

// lockTargetDraw 锁定目标期次：指定期号锁指定期，否则锁当前在售期
func lockTargetDraw(ctx context.Context, tx sqlx.ExtContext, drawNumber int64) (*model.Draw, error) {
	if drawNumber > 0 {
		d, err := model.GetDrawByNumberForUpdate(ctx, tx, drawNumber)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrDrawNotFound
			}
			return nil, err
		}
		return d, nil
	}
	d, err := model.FindOpenDrawForUpdate(ctx, tx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDrawNotFound
		}
		return nil, err
	}
	return d, nil
}

// lockOrCreateWallet 锁定用户钱包，不存在时就地创建（余额 0）
// 并发创建撞 user_id 唯一键时重读加锁
func lockOrCreateWallet(ctx context.Context, tx sqlx.ExtContext, userID int64) (*model.Wallet, error) {
	w, err := model.GetWalletForUpdate(ctx, tx, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	nw := &model.Wallet{UserID: userID, Balance: decimal.Zero}
	if err := nw.Insert(ctx, tx); err != nil {
		if model.IsDuplicateKeyError(err) {
			return model.GetWalletForUpdate(ctx, tx, userID)
		}
		return nil, err
	}
	return nw, nil
}

// ticketPrice 票价取配置，解析失败或缺失时用默认值
func ticketPrice() decimal.Decimal {
	cfg := config.Get()
	if cfg == nil || cfg.Lottery.TicketPrice == "" {
		return defaultTicketPrice
	}
	if p, ok := chelper.ParseAmount(cfg.Lottery.TicketPrice); ok && p.IsPositive() {
		return p
	}
	return defaultTicketPrice
}
