package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/phitthaya2548/lottobackend/common/constant"
	infmysql "github.com/phitthaya2548/lottobackend/internal/infra/mysql"
	"github.com/phitthaya2548/lottobackend/internal/model"
)

// StatsOutput 管理端汇总报表
type StatsOutput struct {
	OpenDraws    int     `json:"open_draws"`
	ClosedDraws  int     `json:"closed_draws"`
	TotalUsers   int     `json:"total_users"`
	TotalSales   float64 `json:"total_sales"`   // PURCHASE 账变绝对值合计
	TotalPayouts float64 `json:"total_payouts"` // PRIZE 账变合计
	TotalDeposit float64 `json:"total_deposit"` // DEPOSIT 账变合计
}

// DrawStatsOutput 单期报表
type DrawStatsOutput struct {
	DrawNumber int64  `json:"draw_number"`
	Status     string `json:"status"`
	SoldCount  int    `json:"sold_count"`
	SourceMode string `json:"source_mode"`
}

type StatsService interface {
	Summary(ctx context.Context) (*StatsOutput, error)
	DrawStats(ctx context.Context, drawNumber int64) (*DrawStatsOutput, error)
}

type statsService struct{}

func NewStatsService() StatsService { return &statsService{} }

// Summary 全局汇总：账变流水按类型聚合
func (s *statsService) Summary(ctx context.Context) (*StatsOutput, error) {
	db := infmysql.SQLX()

	open, err := model.CountDraws(db, constant.DrawStatusOpen)
	if err != nil {
		return nil, err
	}
	closed, err := model.CountDraws(db, constant.DrawStatusClosed)
	if err != nil {
		return nil, err
	}
	users, err := model.CountUsers(db)
	if err != nil {
		return nil, err
	}
	sales, err := model.SumWalletTxByType(db, constant.TxTypePurchase)
	if err != nil {
		return nil, err
	}
	payouts, err := model.SumWalletTxByType(db, constant.TxTypePrize)
	if err != nil {
		return nil, err
	}
	deposit, err := model.SumWalletTxByType(db, constant.TxTypeDeposit)
	if err != nil {
		return nil, err
	}

	out := &StatsOutput{
		OpenDraws:    open,
		ClosedDraws:  closed,
		TotalUsers:   users,
		TotalSales:   -sales, // PURCHASE 为负数流水
		TotalPayouts: payouts,
		TotalDeposit: deposit,
	}
	fmt.Printf("[Stats] 汇总报表: open=%d, closed=%d, users=%d, sales=%.2f, payouts=%.2f\n",
		open, closed, users, out.TotalSales, payouts)
	return out, nil
}

// DrawStats 单期售票统计
func (s *statsService) DrawStats(ctx context.Context, drawNumber int64) (*DrawStatsOutput, error) {
	if drawNumber <= 0 {
		return nil, ErrBadRequest
	}

	db := infmysql.SQLX()
	d, err := model.GetDrawByNumber(ctx, db, drawNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDrawNotFound
		}
		return nil, err
	}

	sold, err := model.CountSoldTickets(db, d.ID)
	if err != nil {
		return nil, err
	}

	return &DrawStatsOutput{
		DrawNumber: d.DrawNumber,
		Status:     d.Status,
		SoldCount:  sold,
		SourceMode: d.SourceMode,
	}, nil
}
