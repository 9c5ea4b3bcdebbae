package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	chelper "github.com/phitthaya2548/lottobackend/common/helper"

	"github.com/phitthaya2548/lottobackend/common/constant"
	infmysql "github.com/phitthaya2548/lottobackend/internal/infra/mysql"
	infrds "github.com/phitthaya2548/lottobackend/internal/infra/redis"
	"github.com/phitthaya2548/lottobackend/internal/model"
)

// 当前在售期缓存 TTL：开售/结算都会主动失效，这里只是兜底
const currentDrawTTL = 30 * time.Second

// DrawView 期次视图；未开奖时号码字段为空串
type DrawView struct {
	DrawID       int64  `json:"draw_id"`
	DrawNumber   int64  `json:"draw_number"`
	DrawDate     string `json:"draw_date"`
	SourceMode   string `json:"source_mode"`
	Status       string `json:"status"`
	Win1Full     string `json:"win1_full,omitempty"`
	Win2Full     string `json:"win2_full,omitempty"`
	Win3Full     string `json:"win3_full,omitempty"`
	WinLast3     string `json:"win_last3,omitempty"`
	WinLast2     string `json:"win_last2,omitempty"`
	Prize1Amount string `json:"prize1_amount"`
	Prize2Amount string `json:"prize2_amount"`
	Prize3Amount string `json:"prize3_amount"`
	Last3Amount  string `json:"last3_amount"`
	Last2Amount  string `json:"last2_amount"`
	ClosedAt     int64  `json:"closed_at,omitempty"`
	ClosedAtText string `json:"closed_at_text,omitempty"`
}

// AvailabilityOutput 号码可售查询输出
type AvailabilityOutput struct {
	DrawNumber   int64  `json:"draw_number"`
	TicketNumber string `json:"ticket_number"`
	Available    bool   `json:"available"`
}

type DrawQueryService interface {
	GetCurrentDraw(ctx context.Context) (*DrawView, error)
	GetLatestResult(ctx context.Context) (*DrawView, error)
	GetDrawByNumber(ctx context.Context, drawNumber int64) (*DrawView, error)
	ListDraws(ctx context.Context, status string, limit, offset uint) ([]DrawView, error)
	CheckAvailability(ctx context.Context, drawNumber int64, ticketNumber string) (*AvailabilityOutput, error)
}

type drawQueryService struct{}

func NewDrawQueryService() DrawQueryService { return &drawQueryService{} }

// GetCurrentDraw 查询当前在售期，优先走缓存
func (s *drawQueryService) GetCurrentDraw(ctx context.Context) (*DrawView, error) {
	if r := infrds.Client(); r != nil {
		if bs, _ := r.Get(ctx, infrds.CurrentDrawKey()).Bytes(); len(bs) > 0 {
			var v DrawView
			if json.Unmarshal(bs, &v) == nil {
				return &v, nil
			}
		}
	}

	d, err := model.GetCurrentOpenDraw(ctx, infmysql.SQLX())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDrawNotFound
		}
		return nil, err
	}
	v := toDrawView(d)

	if r := infrds.Client(); r != nil {
		if bs, e := json.Marshal(v); e == nil {
			_ = r.Set(ctx, infrds.CurrentDrawKey(), bs, currentDrawTTL).Err()
		}
	}
	return v, nil
}

// GetLatestResult 查询最近一期开奖结果
func (s *drawQueryService) GetLatestResult(ctx context.Context) (*DrawView, error) {
	d, err := model.GetLatestClosedDraw(ctx, infmysql.SQLX())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDrawNotFound
		}
		return nil, err
	}
	return toDrawView(d), nil
}

// GetDrawByNumber 按期号查询；已开奖期次优先走结果缓存
func (s *drawQueryService) GetDrawByNumber(ctx context.Context, drawNumber int64) (*DrawView, error) {
	if drawNumber <= 0 {
		return nil, ErrBadRequest
	}

	if r := infrds.Client(); r != nil {
		if bs, _ := r.Get(ctx, infrds.DrawResultKey(drawNumber)).Bytes(); len(bs) > 0 {
			var v DrawView
			if json.Unmarshal(bs, &v) == nil && v.DrawNumber == drawNumber {
				return &v, nil
			}
		}
	}

	d, err := model.GetDrawByNumber(ctx, infmysql.SQLX(), drawNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDrawNotFound
		}
		return nil, err
	}
	v := toDrawView(d)

	// 只缓存不可变的已开奖结果
	if d.Status == constant.DrawStatusClosed {
		if r := infrds.Client(); r != nil {
			if bs, e := json.Marshal(v); e == nil {
				_ = r.Set(ctx, infrds.DrawResultKey(drawNumber), bs, drawResultTTL).Err()
			}
		}
	}
	return v, nil
}

// ListDraws 分页倒序列出期次
func (s *drawQueryService) ListDraws(ctx context.Context, status string, limit, offset uint) ([]DrawView, error) {
	if status != "" && status != constant.DrawStatusOpen && status != constant.DrawStatusClosed {
		return nil, ErrBadRequest
	}
	list, err := model.ListDraws(ctx, infmysql.SQLX(), status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]DrawView, 0, len(list))
	for i := range list {
		out = append(out, *toDrawView(&list[i]))
	}
	return out, nil
}

// CheckAvailability 查询某期某号码是否可售（只对 OPEN 期有意义）
func (s *drawQueryService) CheckAvailability(ctx context.Context, drawNumber int64, ticketNumber string) (*AvailabilityOutput, error) {
	if drawNumber <= 0 || !isTicketNumber(ticketNumber) {
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
	if d.Status != constant.DrawStatusOpen {
		return &AvailabilityOutput{DrawNumber: drawNumber, TicketNumber: ticketNumber, Available: false}, nil
	}

	taken, err := model.TicketNumberTaken(db, d.ID, ticketNumber)
	if err != nil {
		return nil, err
	}
	return &AvailabilityOutput{DrawNumber: drawNumber, TicketNumber: ticketNumber, Available: !taken}, nil
}

func toDrawView(d *model.Draw) *DrawView {
	v := &DrawView{
		DrawID:       d.ID,
		DrawNumber:   d.DrawNumber,
		DrawDate:     d.DrawDate,
		SourceMode:   d.SourceMode,
		Status:       d.Status,
		Win1Full:     d.Win1Full.String,
		Win2Full:     d.Win2Full.String,
		Win3Full:     d.Win3Full.String,
		WinLast3:     d.WinLast3.String,
		WinLast2:     d.WinLast2.String,
		Prize1Amount: chelper.TrimDecimal(d.Prize1Amount),
		Prize2Amount: chelper.TrimDecimal(d.Prize2Amount),
		Prize3Amount: chelper.TrimDecimal(d.Prize3Amount),
		Last3Amount:  chelper.TrimDecimal(d.Last3Amount),
		Last2Amount:  chelper.TrimDecimal(d.Last2Amount),
	}
	if d.ClosedAt.Valid {
		v.ClosedAt = d.ClosedAt.Int64
		v.ClosedAtText = chelper.FormatMillisToYMDHMS(d.ClosedAt.Int64)
	}
	return v
}
