package api

import (
	"errors"

	helper "github.com/phitthaya2548/lottobackend/internal/common/helper"
	"github.com/phitthaya2548/lottobackend/internal/common/response"
	"github.com/phitthaya2548/lottobackend/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newClaimService = service.NewClaimService

// PrizeController 查奖与兑奖接口（需登录）
type PrizeController struct{ beego.Controller }

// Check 查奖接口（只读）：POST /api/prize/check
func (c *PrizeController) Check() {
	traceID := helper.GetTraceID(c.Ctx)
	userID := helper.GetAuthUserID(c.Ctx)

	cp, ok, msg := helper.ParseAndValidateClaim(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	svc := newClaimService()
	out, err := svc.CheckPrize(c.Ctx.Request.Context(), service.ClaimInput{
		UserID:       userID,
		DrawNumber:   cp.DrawNumber,
		TicketNumber: cp.TicketNumber,
		TraceID:      traceID,
	})
	if err != nil {
		writePrizeError(c, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Claim 兑奖接口：POST /api/prize/claim
func (c *PrizeController) Claim() {
	traceID := helper.GetTraceID(c.Ctx)
	userID := helper.GetAuthUserID(c.Ctx)

	cp, ok, msg := helper.ParseAndValidateClaim(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	svc := newClaimService()
	out, err := svc.ClaimPrize(c.Ctx.Request.Context(), service.ClaimInput{
		UserID:       userID,
		DrawNumber:   cp.DrawNumber,
		TicketNumber: cp.TicketNumber,
		TraceID:      traceID,
	})
	if err != nil {
		writePrizeError(c, err, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// writePrizeError 查奖/兑奖共用的错误映射
func writePrizeError(c *PrizeController, err error, traceID string) {
	switch {
	case errors.Is(err, service.ErrBadRequest):
		response.BadRequest(&c.Controller, "invalid request", traceID)
	case errors.Is(err, service.ErrDrawNotFound):
		response.NotFound(&c.Controller, "期次不存在", traceID)
	case errors.Is(err, service.ErrDrawNotClosed):
		response.Conflict(&c.Controller, response.CodeDrawNotClosed, traceID)
	case errors.Is(err, service.ErrTicketNotFound):
		response.NotFound(&c.Controller, "票不存在", traceID)
	case errors.Is(err, service.ErrNotOwner):
		response.Forbidden(&c.Controller, response.CodeNotOwner, traceID)
	case errors.Is(err, service.ErrAlreadyRedeemed):
		response.Conflict(&c.Controller, response.CodeAlreadyRedeemed, traceID)
	case errors.Is(err, service.ErrInvalidTicketStatus):
		response.Conflict(&c.Controller, response.CodeInvalidTicketStatus, traceID)
	case errors.Is(err, service.ErrNotAWinner):
		response.Error(&c.Controller, 422, response.CodeNotAWinner, traceID)
	case errors.Is(err, service.ErrWalletNotFound):
		response.NotFound(&c.Controller, "钱包不存在", traceID)
	case errors.Is(err, service.ErrDuplicatePrizeTx):
		response.Conflict(&c.Controller, response.CodeDuplicatePrizeTx, traceID)
	case errors.Is(err, service.ErrDuplicateInFlight):
		response.Accepted(&c.Controller, "重复请求进行中，请稍后重试", traceID)
	default:
		response.InternalError(&c.Controller, traceID)
	}
}
