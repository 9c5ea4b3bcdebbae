package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
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

// 默认事务超时时间，防止长事务占用资源影响并发（若上游已有 deadline，则沿用上游）
const defaultTxTimeout = 3 * time.Second

// 开奖结果缓存 TTL：结果不可变，缓存仅为降低结果查询压力
const drawResultTTL = 10 * time.Minute

// SettleInput 结算输入
// 金额参数均可选：关闭期的金额缺省沿用该期配置；下一期金额缺省继承本期刚派发的金额
type SettleInput struct {
	SourceMode  string // ALL | SOLD_ONLY，空则沿用当期配置
	UniqueExact *bool  // 三个全号码是否强制两两不同，默认 true

	// 本期各奖级金额覆盖（nil 表示沿用当期已配置金额）
	Prize1Amount *decimal.Decimal
	Prize2Amount *decimal.Decimal
	Prize3Amount *decimal.Decimal
	Last3Amount  *decimal.Decimal
	Last2Amount  *decimal.Decimal

	// 下一期金额覆盖（nil 表示继承本期派发金额）
	NextPrize1Amount *decimal.Decimal
	NextPrize2Amount *decimal.Decimal
	NextPrize3Amount *decimal.Decimal
	NextLast3Amount  *decimal.Decimal
	NextLast2Amount  *decimal.Decimal

	NextDrawDate  string // 下一期开奖日期，空则取今天
	BootstrapDate string // 首次自举时当期日期，空则取今天

	Operator string
	TraceID  string
}

// SettleOutput 结算输出
type SettleOutput struct {
	DrawID       int64
	DrawNumber   int64
	DrawDate     string
	SourceMode   string
	Win1Full     string
	Win2Full     string
	Win3Full     string
	WinLast3     string
	WinLast2     string
	Prize1Amount string
	Prize2Amount string
	Prize3Amount string
	Last3Amount  string
	Last2Amount  string
	SoldCount    int

	NextDrawID     int64
	NextDrawNumber int64
	NextDrawDate   string
}

type SettleService interface {
	SettleCurrentDraw(ctx context.Context, in SettleInput) (*SettleOutput, error)
}

type settleService struct{}

func NewSettleService() SettleService { return &settleService{} }

// SettleCurrentDraw 结算主流程（单事务原子执行）：
// 1. 锁定当前 OPEN 期（不存在则自举新期）
// 2. SOLD_ONLY 时锁定并读取售出池
// 3. 生成五组开奖号码
// 4. 写入号码与金额并关闭当期
// 5. 以期号+1开出下一期（金额按 显式指定 > 本期派发 > 0 优先级继承）
// 6. 提交；任一步失败整体回滚
func (s *settleService) SettleCurrentDraw(ctx context.Context, in SettleInput) (*SettleOutput, error) {
	start := time.Now()
	result := "fail"
	modeLabel := "unknown"
	defer func() { metrics.RecordSettle(result, modeLabel, start) }()

	fmt.Printf("[Settle] 收到结算请求: source_mode=%s, operator=%s, trace_id=%s\n",
		in.SourceMode, in.Operator, in.TraceID)

	if in.SourceMode != "" &&
		in.SourceMode != constant.SourceModeAll &&
		in.SourceMode != constant.SourceModeSoldOnly {
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
		fmt.Printf("[Settle] 开启事务失败: error=%v, trace_id=%s\n", err, in.TraceID)
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// 1. 锁定当前 OPEN 期；没有任何 OPEN 期时自举一期
	draw, err := model.FindOpenDrawForUpdate(txCtx, tx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		draw, err = bootstrapOpenDraw(txCtx, tx, in)
		if err != nil {
			return nil, err
		}
		fmt.Printf("[Settle] 无在售期，自举新期: draw_number=%d, draw_date=%s, trace_id=%s\n",
			draw.DrawNumber, draw.DrawDate, in.TraceID)
	}

	mode := in.SourceMode
	if mode == "" {
		mode = draw.SourceMode
	}
	if mode == "" {
		mode = constant.SourceModeAll
	}
	modeLabel = mode

	// 2. SOLD_ONLY 时锁住售出池快照，阻止购票并发插入到抽号之后
	var soldPool []string
	if mode == constant.SourceModeSoldOnly {
		soldPool, err = model.ListSoldNumbersForUpdate(txCtx, tx, draw.ID)
		if err != nil {
			return nil, err
		}
		fmt.Printf("[Settle] 售出池锁定: draw_number=%d, sold_count=%d, trace_id=%s\n",
			draw.DrawNumber, len(soldPool), in.TraceID)
	}

	// 3. 生成开奖号码
	uniqueExact := true
	if in.UniqueExact != nil {
		uniqueExact = *in.UniqueExact
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	nums := GenerateWinningNumbers(mode, uniqueExact, soldPool, rng)

	// 状态机校验：只有 OPEN 期可以结算
	if _, err := state.NextDrawState(draw.Status, state.EvtSettle); err != nil {
		fmt.Printf("[Settle] 期次状态不允许结算: draw_number=%d, status=%s, trace_id=%s\n",
			draw.DrawNumber, draw.Status, in.TraceID)
		return nil, ErrDrawNotOpen
	}

	// 4. 关闭当期：金额按 显式指定 > 当期配置
	closeAmounts := model.DrawClose{
		Win1Full:     nums.Prize1,
		Win2Full:     nums.Prize2,
		Win3Full:     nums.Prize3,
		WinLast3:     nums.Last3,
		WinLast2:     nums.Last2,
		Prize1Amount: pickAmount(in.Prize1Amount, draw.Prize1Amount),
		Prize2Amount: pickAmount(in.Prize2Amount, draw.Prize2Amount),
		Prize3Amount: pickAmount(in.Prize3Amount, draw.Prize3Amount),
		Last3Amount:  pickAmount(in.Last3Amount, draw.Last3Amount),
		Last2Amount:  pickAmount(in.Last2Amount, draw.Last2Amount),
		SourceMode:   mode,
	}
	if err := model.CloseDraw(txCtx, tx, draw.ID, closeAmounts); err != nil {
		fmt.Printf("[Settle] 关闭期次失败: draw_number=%d, error=%v, trace_id=%s\n",
			draw.DrawNumber, err, in.TraceID)
		return nil, err
	}

	// 结算日志：期号唯一索引兜底，行锁之下理论上不可达，保留双重保护
	operator := in.Operator
	if operator == "" {
		operator = "admin"
	}
	slog := &model.SettlementLog{
		DrawID:     draw.ID,
		DrawNumber: draw.DrawNumber,
		SourceMode: mode,
		Win1Full:   nums.Prize1,
		Win2Full:   nums.Prize2,
		Win3Full:   nums.Prize3,
		WinLast3:   nums.Last3,
		WinLast2:   nums.Last2,
		SoldCount:  len(soldPool),
		Operator:   operator,
		TraceID:    in.TraceID,
	}
	if err := model.CreateSettlementLog(txCtx, tx, slog); err != nil {
		if model.IsDuplicateKeyError(err) {
			fmt.Printf("[Settle] 结算日志已存在，该期已结算: draw_number=%d, trace_id=%s\n",
				draw.DrawNumber, in.TraceID)
			return nil, ErrAlreadySettled
		}
		return nil, err
	}

	// 5. 开出下一期：金额按 显式指定 > 本期刚派发 > 0
	nextDate := time.Now().Format(chelper.DateLayout)
	if t := chelper.ParseDate(in.NextDrawDate); !t.IsZero() {
		nextDate = t.Format(chelper.DateLayout)
	}
	next := &model.Draw{
		DrawDate:     nextDate,
		DrawNumber:   draw.DrawNumber + 1,
		SourceMode:   mode,
		Prize1Amount: pickAmount(in.NextPrize1Amount, closeAmounts.Prize1Amount),
		Prize2Amount: pickAmount(in.NextPrize2Amount, closeAmounts.Prize2Amount),
		Prize3Amount: pickAmount(in.NextPrize3Amount, closeAmounts.Prize3Amount),
		Last3Amount:  pickAmount(in.NextLast3Amount, closeAmounts.Last3Amount),
		Last2Amount:  pickAmount(in.NextLast2Amount, closeAmounts.Last2Amount),
		Status:       "OPEN",
	}
	if err := next.Insert(txCtx, tx); err != nil {
		fmt.Printf("[Settle] 开出下一期失败: next_draw_number=%d, error=%v, trace_id=%s\n",
			next.DrawNumber, err, in.TraceID)
		return nil, err
	}

	// 事务内写 Outbox，保证事件与落库状态一致
	if err := model.CreateOutbox(txCtx, tx, "draw_settled", fmt.Sprintf("draw-%d", draw.DrawNumber), map[string]any{
		"event":            "draw_settled",
		"draw_id":          draw.ID,
		"draw_number":      draw.DrawNumber,
		"source_mode":      mode,
		"win1_full":        nums.Prize1,
		"win2_full":        nums.Prize2,
		"win3_full":        nums.Prize3,
		"win_last3":        nums.Last3,
		"win_last2":        nums.Last2,
		"sold_count":       len(soldPool),
		"next_draw_number": next.DrawNumber,
		"trace_id":         in.TraceID,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		fmt.Printf("[Settle] 提交事务失败: draw_number=%d, error=%v, trace_id=%s\n",
			draw.DrawNumber, err, in.TraceID)
		return nil, err
	}

	out := &SettleOutput{
		DrawID:         draw.ID,
		DrawNumber:     draw.DrawNumber,
		DrawDate:       draw.DrawDate,
		SourceMode:     mode,
		Win1Full:       nums.Prize1,
		Win2Full:       nums.Prize2,
		Win3Full:       nums.Prize3,
		WinLast3:       nums.Last3,
		WinLast2:       nums.Last2,
		Prize1Amount:   chelper.TrimDecimal(closeAmounts.Prize1Amount),
		Prize2Amount:   chelper.TrimDecimal(closeAmounts.Prize2Amount),
		Prize3Amount:   chelper.TrimDecimal(closeAmounts.Prize3Amount),
		Last3Amount:    chelper.TrimDecimal(closeAmounts.Last3Amount),
		Last2Amount:    chelper.TrimDecimal(closeAmounts.Last2Amount),
		SoldCount:      len(soldPool),
		NextDrawID:     next.ID,
		NextDrawNumber: next.DrawNumber,
		NextDrawDate:   next.DrawDate,
	}

	// 开奖结果写入 Redis，结果查询走缓存
	if r := infrds.Client(); r != nil {
		if b, e := json.Marshal(out); e == nil {
			if err := r.Set(ctx, infrds.DrawResultKey(draw.DrawNumber), b, drawResultTTL).Err(); err != nil {
				logger.WarnCtx(ctx, "draw result cache write failed",
					zap.Int64("draw_number", draw.DrawNumber), zap.Error(err))
			}
			_ = r.Del(ctx, infrds.CurrentDrawKey()).Err()
		}
	}

	result = "success"
	fmt.Printf("[Settle] 结算完成: draw_number=%d, win1=%s, last3=%s, last2=%s, next_draw_number=%d, trace_id=%s\n",
		draw.DrawNumber, nums.Prize1, nums.Last3, nums.Last2, next.DrawNumber, in.TraceID)
	return out, nil
}

// bootstrapOpenDraw 在没有任何 OPEN 期时创建第一期（或接续最大期号+1）
func bootstrapOpenDraw(ctx context.Context, tx sqlx.ExtContext, in SettleInput) (*model.Draw, error) {
	max, err := model.MaxDrawNumberForUpdate(ctx, tx)
	if err != nil {
		return nil, err
	}

	date := time.Now().Format(chelper.DateLayout)
	if t := chelper.ParseDate(in.BootstrapDate); !t.IsZero() {
		date = t.Format(chelper.DateLayout)
	}
	mode := in.SourceMode
	if mode == "" {
		mode = constant.SourceModeAll
	}

	d := &model.Draw{
		DrawDate:     date,
		DrawNumber:   max + 1,
		SourceMode:   mode,
		Prize1Amount: pickAmount(in.Prize1Amount, decimal.Zero),
		Prize2Amount: pickAmount(in.Prize2Amount, decimal.Zero),
		Prize3Amount: pickAmount(in.Prize3Amount, decimal.Zero),
		Last3Amount:  pickAmount(in.Last3Amount, decimal.Zero),
		Last2Amount:  pickAmount(in.Last2Amount, decimal.Zero),
		Status:       "OPEN",
	}
	if err := d.Insert(ctx, tx); err != nil {
		return nil, err
	}
	return d, nil
}

// pickAmount 显式金额优先，否则取兜底值
func pickAmount(override *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if override != nil {
		return override.Round(2)
	}
	return fallback
}
