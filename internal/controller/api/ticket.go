package api

import (
	"errors"
	"strconv"
	"strings"

	helper "github.com/phitthaya2548/lottobackend/internal/common/helper"
	"github.com/phitthaya2548/lottobackend/internal/common/response"
	"github.com/phitthaya2548/lottobackend/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var (
	newPurchaseService    = service.NewPurchaseService
	newTicketQueryService = service.NewTicketQueryService
)

// TicketController 购票与持票查询接口（需登录）
type TicketController struct{ beego.Controller }

// Buy 购票接口：POST /api/tickets/buy
func (c *TicketController) Buy() {
	traceID := helper.GetTraceID(c.Ctx)
	userID := helper.GetAuthUserID(c.Ctx)

	bp, ok, msg := helper.ParseAndValidateBuy(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	svc := newPurchaseService()
	out, err := svc.BuyTicket(c.Ctx.Request.Context(), service.PurchaseInput{
		UserID:       userID,
		DrawNumber:   bp.DrawNumber,
		TicketNumber: bp.TicketNumber,
		TraceID:      traceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadRequest):
			response.BadRequest(&c.Controller, "invalid request", traceID)
		case errors.Is(err, service.ErrDrawNotFound):
			response.NotFound(&c.Controller, "期次不存在", traceID)
		case errors.Is(err, service.ErrDrawNotOpen):
			response.Conflict(&c.Controller, response.CodeDrawNotOpen, traceID)
		case errors.Is(err, service.ErrNumberTaken):
			response.Conflict(&c.Controller, response.CodeNumberTaken, traceID)
		case errors.Is(err, service.ErrInsufficientBalance):
			response.Conflict(&c.Controller, response.CodeInsufficientBalance, traceID)
		default:
			response.InternalError(&c.Controller, traceID)
		}
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// My 持票查询接口：GET /api/tickets/my?draw_number=&limit=&offset=
func (c *TicketController) My() {
	traceID := helper.GetTraceID(c.Ctx)
	userID := helper.GetAuthUserID(c.Ctx)

	var drawNumber int64
	if dn := strings.TrimSpace(c.Ctx.Input.Query("draw_number")); dn != "" {
		v, err := strconv.ParseInt(dn, 10, 64)
		if err != nil {
			response.BadRequest(&c.Controller, "draw_number must be integer", traceID)
			return
		}
		drawNumber = v
	}
	limit, offset := parsePageParams(c.Ctx.Input.Query("limit"), c.Ctx.Input.Query("offset"))

	svc := newTicketQueryService()
	items, err := svc.ListMyTickets(c.Ctx.Request.Context(), userID, drawNumber, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrBadRequest) {
			response.BadRequest(&c.Controller, "invalid request", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, items, traceID)
}

// Availability 号码可售查询接口：GET /api/tickets/availability?draw_number=&ticket_number=
func (c *TicketController) Availability() {
	traceID := helper.GetTraceID(c.Ctx)

	dn := strings.TrimSpace(c.Ctx.Input.Query("draw_number"))
	drawNumber, err := strconv.ParseInt(dn, 10, 64)
	if err != nil || drawNumber <= 0 {
		response.BadRequest(&c.Controller, "draw_number must be positive integer", traceID)
		return
	}
	ticketNumber := strings.TrimSpace(c.Ctx.Input.Query("ticket_number"))
	if !helper.IsTicketNumberFormat(ticketNumber) {
		response.BadRequest(&c.Controller, "ticket_number must be exactly 6 digits", traceID)
		return
	}

	svc := newDrawQueryService()
	out, err := svc.CheckAvailability(c.Ctx.Request.Context(), drawNumber, ticketNumber)
	if err != nil {
		if errors.Is(err, service.ErrDrawNotFound) {
			response.NotFound(&c.Controller, "期次不存在", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// parsePageParams 解析分页参数，越界时回落到默认值
func parsePageParams(limitStr, offsetStr string) (uint, uint) {
	limit := uint(20)
	offset := uint(0)
	if v, err := strconv.ParseUint(strings.TrimSpace(limitStr), 10, 32); err == nil && v > 0 && v <= 100 {
		limit = uint(v)
	}
	if v, err := strconv.ParseUint(strings.TrimSpace(offsetStr), 10, 32); err == nil {
		offset = uint(v)
	}
	return limit, offset
}
