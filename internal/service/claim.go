package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	chelper "github.com/phitthaya2548/lottobackend/common/helper"

	"github.com/phitthaya2548/lottobackend/common/constant"
	"github.com/phitthaya2548/lottobackend/common/logger"
	infmysql "github.com/phitthaya2548/lottobackend/internal/infra/mysql"
	infrds "github.com/phitthaya2548/lottobackend/internal/infra/redis"
	"github.com/phitthaya2548/lottobackend/internal/metrics"
	"github.com/phitthaya2548/lottobackend/internal/model"
	"github.com/phitthaya2548/lottobackend/internal/state"
)

// 兑奖进行中锁 TTL：覆盖一次兑奖事务的最长耗时即可
const claimLockTTL = 45 * time.Second

// ClaimInput 兑奖输入
type ClaimInput struct {
	UserID       int64
	DrawNumber   int64
	TicketNumber string
	TraceID      string
}

// ClaimOutput 兑奖输出
type ClaimOutput struct {
	DrawNumber   int64    `json:"draw_number"`
	TicketNumber string   `json:"ticket_number"`
	Tier         string   `json:"tier"`
	Matched      []string `json:"matched"`
	Amount       string   `json:"amount"`
	Balance      string   `json:"balance"`
	TicketStatus string   `json:"ticket_status"`
}

// CheckOutput 查奖输出（只读，不改任何状态）
type CheckOutput struct {
	DrawNumber   int64    `json:"draw_number"`
	TicketNumber string   `json:"ticket_number"`
	Won          bool     `json:"won"`
	Tier         string   `json:"tier"`
	Matched      []string `json:"matched"`
	Amount       string   `json:"amount"`
	TicketStatus string   `json:"ticket_status"`
}

type ClaimService interface {
	ClaimPrize(ctx context.Context, in ClaimInput) (*ClaimOutput, error)
	CheckPrize(ctx context.Context, in ClaimInput) (*CheckOutput, error)
}

type claimService struct{}

func NewClaimService() ClaimService { return &claimService{} }

// ClaimPrize 兑奖主流程（单事务原子执行）：
// 票行锁串行化同一张票的并发兑奖；PRIZE 账变唯一索引兜底重复派奖；
// 未中奖整体回滚，票保持 SOLD 可再次查询
func (s *claimService) ClaimPrize(ctx context.Context, in ClaimInput) (*ClaimOutput, error) {
	start := time.Now()
	result := "fail"
	tierLabel := "none"
	defer func() { metrics.RecordClaim(result, tierLabel, start) }()

	fmt.Printf("[Claim] 收到兑奖请求: user_id=%d, draw_number=%d, ticket_number=%s, trace_id=%s\n",
		in.UserID, in.DrawNumber, in.TicketNumber, in.TraceID)

	if in.UserID <= 0 || in.DrawNumber <= 0 || !isTicketNumber(in.TicketNumber) {
		return nil, ErrBadRequest
	}

	// 进行中锁，吸收同一张票的瞬时重复提交；Redis 不可用时退化为纯 DB 锁路径
	if r := infrds.Client(); r != nil {
		// 生成唯一锁值，防止误删其他请求的锁
		lockValue := uuid.New().String()
		lockKey := infrds.ClaimLockKey(in.DrawNumber, in.TicketNumber)

		ok, _ := r.SetNX(ctx, lockKey, lockValue, claimLockTTL).Result()
		if !ok {
			fmt.Printf("[Claim] 同票兑奖进行中: draw_number=%d, ticket_number=%s, trace_id=%s\n",
				in.DrawNumber, in.TicketNumber, in.TraceID)
			return nil, ErrDuplicateInFlight
		}
		// Lua 原子释放：仅当锁值匹配时删除
		defer func() {
			script := `
				if redis.call("get", KEYS[1]) == ARGV[1] then
					return redis.call("del", KEYS[1])
				else
					return 0
				end
			`
			if _, err := r.Eval(ctx, script, []string{lockKey}, lockValue).Result(); err != nil {
				logger.WarnCtx(ctx, "claim lock release failed",
					zap.String("key", lockKey), zap.Error(err))
			}
		}()
	}

	// 期次按期号普通读取即可：CLOSED 后号码不再变化
	draw, err := model.GetDrawByNumber(ctx, infmysql.SQLX(), in.DrawNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDrawNotFound
		}
		return nil, err
	}
	if draw.Status != constant.DrawStatusClosed {
		fmt.Printf("[Claim] 该期未开奖: draw_number=%d, status=%s, trace_id=%s\n",
			in.DrawNumber, draw.Status, in.TraceID)
		return nil, ErrDrawNotClosed
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

	// 票行锁，同一张票的并发兑奖在此串行
	ticket, err := model.GetTicketForUpdate(txCtx, tx, draw.ID, in.TicketNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if !ticket.BuyerUserID.Valid || ticket.BuyerUserID.Int64 != in.UserID {
		fmt.Printf("[Claim] 非持票人兑奖被拒: ticket_id=%d, user_id=%d, trace_id=%s\n",
			ticket.ID, in.UserID, in.TraceID)
		return nil, ErrNotOwner
	}
	// 状态机校验：已兑与未售出的票都拒绝
	if _, serr := state.NextTicketState(ticket.Status, state.EvtRedeem); serr != nil {
		if ticket.Status == constant.TicketStatusRedeemed {
			return nil, ErrAlreadyRedeemed
		}
		return nil, ErrInvalidTicketStatus
	}

	jr := Judge(ticket.TicketNumber, draw)
	if !jr.Won() {
		fmt.Printf("[Claim] 未中奖: draw_number=%d, ticket_number=%s, trace_id=%s\n",
			in.DrawNumber, in.TicketNumber, in.TraceID)
		return nil, ErrNotAWinner
	}
	tierLabel = string(jr.Best)

	// 钱包行锁；兑奖不自动建钱包，持票必然先有钱包
	wallet, err := model.GetWalletForUpdate(txCtx, tx, in.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	// PRIZE 账变先插：唯一索引是防重复派奖的最后防线
	prizeTx := &model.WalletTransaction{
		WalletID: wallet.ID,
		TxType:   constant.TxTypePrize,
		Amount:   jr.Amount,
		RefType:  model.RefTypeTicket,
		RefID:    sql.NullInt64{Int64: ticket.ID, Valid: true},
		Note:     fmt.Sprintf("prize %s draw %d ticket %s", jr.Best, in.DrawNumber, in.TicketNumber),
		TraceID:  in.TraceID,
	}
	if err := prizeTx.Insert(txCtx, tx); err != nil {
		if model.IsDuplicateKeyError(err) {
			fmt.Printf("[Claim] 重复派奖被唯一索引拦截: ticket_id=%d, trace_id=%s\n",
				ticket.ID, in.TraceID)
			return nil, ErrDuplicatePrizeTx
		}
		return nil, err
	}

	newBalance := wallet.Balance.Add(jr.Amount)
	if err := model.UpdateWalletBalance(txCtx, tx, wallet.ID, newBalance); err != nil {
		return nil, err
	}
	if err := model.MarkTicketRedeemed(txCtx, tx, ticket.ID); err != nil {
		return nil, err
	}

	if err := model.CreateOutbox(txCtx, tx, "prize_claimed", fmt.Sprintf("ticket-%d", ticket.ID), map[string]any{
		"event":         "prize_claimed",
		"user_id":       in.UserID,
		"draw_number":   in.DrawNumber,
		"ticket_number": in.TicketNumber,
		"tier":          string(jr.Best),
		"amount":        chelper.TrimDecimal(jr.Amount),
		"trace_id":      in.TraceID,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		fmt.Printf("[Claim] 提交事务失败: ticket_id=%d, error=%v, trace_id=%s\n",
			ticket.ID, err, in.TraceID)
		return nil, err
	}

	result = "success"
	fmt.Printf("[Claim] 兑奖成功: user_id=%d, ticket_number=%s, tier=%s, amount=%s, trace_id=%s\n",
		in.UserID, in.TicketNumber, jr.Best, chelper.TrimDecimal(jr.Amount), in.TraceID)

	return &ClaimOutput{
		DrawNumber:   in.DrawNumber,
		TicketNumber: in.TicketNumber,
		Tier:         string(jr.Best),
		Matched:      tierNames(jr.Matched),
		Amount:       chelper.TrimDecimal(jr.Amount),
		Balance:      chelper.TrimDecimal(newBalance),
		TicketStatus: constant.TicketStatusRedeemed,
	}, nil
}

// CheckPrize 只读查奖：与兑奖共用判奖逻辑，保证查到什么就能兑到什么
func (s *claimService) CheckPrize(ctx context.Context, in ClaimInput) (*CheckOutput, error) {
	if in.UserID <= 0 || in.DrawNumber <= 0 || !isTicketNumber(in.TicketNumber) {
		return nil, ErrBadRequest
	}

	db := infmysql.SQLX()
	draw, err := model.GetDrawByNumber(ctx, db, in.DrawNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDrawNotFound
		}
		return nil, err
	}
	if draw.Status != constant.DrawStatusClosed {
		return nil, ErrDrawNotClosed
	}

	ticket, err := model.GetTicket(ctx, db, draw.ID, in.TicketNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if !ticket.BuyerUserID.Valid || ticket.BuyerUserID.Int64 != in.UserID {
		return nil, ErrNotOwner
	}

	jr := Judge(ticket.TicketNumber, draw)
	out := &CheckOutput{
		DrawNumber:   in.DrawNumber,
		TicketNumber: in.TicketNumber,
		Won:          jr.Won(),
		Tier:         string(jr.Best),
		Matched:      tierNames(jr.Matched),
		Amount:       chelper.TrimDecimal(jr.Amount),
		TicketStatus: ticket.Status,
	}
	return out, nil
}

func tierNames(tiers []Tier) []string {
	out := make([]string, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, string(t))
	}
	return out
}

// isTicketNumber 校验 6 位纯数字号码（允许前导0）
func isTicketNumber(s string) bool {
	if len(s) != constant.TicketNumberLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
