package api

import (
	"errors"

	"github.com/shopspring/decimal"

	helper "github.com/phitthaya2548/lottobackend/internal/common/helper"
	"github.com/phitthaya2548/lottobackend/internal/common/response"
	"github.com/phitthaya2548/lottobackend/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newSettleService = service.NewSettleService

// SettleController 结算管理接口（仅管理员）
type SettleController struct{ beego.Controller }

// Settle 结算当前期并开出下一期：POST /api/admin/settle
func (c *SettleController) Settle() {
	traceID := helper.GetTraceID(c.Ctx)

	sp, ok, msg := helper.ParseAndValidateSettle(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	in := service.SettleInput{
		SourceMode:       sp.SourceMode,
		UniqueExact:      sp.UniqueExact,
		Prize1Amount:     parseOptionalAmount(sp.Prize1Amount),
		Prize2Amount:     parseOptionalAmount(sp.Prize2Amount),
		Prize3Amount:     parseOptionalAmount(sp.Prize3Amount),
		Last3Amount:      parseOptionalAmount(sp.Last3Amount),
		Last2Amount:      parseOptionalAmount(sp.Last2Amount),
		NextPrize1Amount: parseOptionalAmount(sp.NextPrize1Amount),
		NextPrize2Amount: parseOptionalAmount(sp.NextPrize2Amount),
		NextPrize3Amount: parseOptionalAmount(sp.NextPrize3Amount),
		NextLast3Amount:  parseOptionalAmount(sp.NextLast3Amount),
		NextLast2Amount:  parseOptionalAmount(sp.NextLast2Amount),
		NextDrawDate:     sp.NextDrawDate,
		Operator:         sp.Operator,
		TraceID:          traceID,
	}

	svc := newSettleService()
	out, err := svc.SettleCurrentDraw(c.Ctx.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadRequest):
			response.BadRequest(&c.Controller, "invalid request", traceID)
		case errors.Is(err, service.ErrAlreadySettled):
			response.Conflict(&c.Controller, response.CodeAlreadySettled, traceID)
		default:
			response.InternalError(&c.Controller, traceID)
		}
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// parseOptionalAmount 空串返回 nil，表示沿用默认金额
func parseOptionalAmount(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
