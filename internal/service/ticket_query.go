package service

import (
	"context"

	chelper "github.com/phitthaya2548/lottobackend/common/helper"

	infmysql "github.com/phitthaya2548/lottobackend/internal/infra/mysql"
	"github.com/phitthaya2548/lottobackend/internal/model"
)

// TicketItem 持票视图
type TicketItem struct {
	TicketID     int64  `json:"ticket_id"`
	DrawID       int64  `json:"draw_id"`
	TicketNumber string `json:"ticket_number"`
	Price        string `json:"price"`
	Status       string `json:"status"`
	SoldAt       int64  `json:"sold_at"`
}

type TicketQueryService interface {
	ListMyTickets(ctx context.Context, userID, drawNumber int64, limit, offset uint) ([]TicketItem, error)
}

type ticketQueryService struct{}

func NewTicketQueryService() TicketQueryService { return &ticketQueryService{} }

// ListMyTickets 查询用户持票，drawNumber 为 0 表示全部期次
func (s *ticketQueryService) ListMyTickets(ctx context.Context, userID, drawNumber int64, limit, offset uint) ([]TicketItem, error) {
	if userID <= 0 {
		return nil, ErrBadRequest
	}

	db := infmysql.SQLX()
	var drawID int64
	if drawNumber > 0 {
		d, err := model.GetDrawByNumber(ctx, db, drawNumber)
		if err != nil {
			// 期次不存在时返回空列表而不是报错，前端按期筛选更顺手
			return []TicketItem{}, nil
		}
		drawID = d.ID
	}

	rows, err := model.ListTicketsByBuyer(ctx, db, userID, drawID, limit, offset)
	if err != nil {
		return nil, err
	}

	items := make([]TicketItem, 0, len(rows))
	for _, t := range rows {
		items = append(items, TicketItem{
			TicketID:     t.ID,
			DrawID:       t.DrawID,
			TicketNumber: t.TicketNumber,
			Price:        chelper.TrimDecimal(t.Price),
			Status:       t.Status,
			SoldAt:       t.SoldAt,
		})
	}
	return items, nil
}
