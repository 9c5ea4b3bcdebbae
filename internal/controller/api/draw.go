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

var newDrawQueryService = service.NewDrawQueryService

// DrawController 期次查询接口（公开）
type DrawController struct{ beego.Controller }

// Current 当前在售期：GET /api/draws/current
func (c *DrawController) Current() {
	traceID := helper.GetTraceID(c.Ctx)

	svc := newDrawQueryService()
	out, err := svc.GetCurrentDraw(c.Ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrDrawNotFound) {
			response.NotFound(&c.Controller, "当前没有在售期次", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Latest 最近一期开奖结果：GET /api/draws/latest
func (c *DrawController) Latest() {
	traceID := helper.GetTraceID(c.Ctx)

	svc := newDrawQueryService()
	out, err := svc.GetLatestResult(c.Ctx.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrDrawNotFound) {
			response.NotFound(&c.Controller, "还没有已开奖期次", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Get 按期号查询：GET /api/draws/:draw_number
func (c *DrawController) Get() {
	traceID := helper.GetTraceID(c.Ctx)

	dn := strings.TrimSpace(c.Ctx.Input.Param(":draw_number"))
	drawNumber, err := strconv.ParseInt(dn, 10, 64)
	if err != nil || drawNumber <= 0 {
		response.BadRequest(&c.Controller, "draw_number must be positive integer", traceID)
		return
	}

	svc := newDrawQueryService()
	out, err := svc.GetDrawByNumber(c.Ctx.Request.Context(), drawNumber)
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

// List 期次列表：GET /api/draws?status=&limit=&offset=
func (c *DrawController) List() {
	traceID := helper.GetTraceID(c.Ctx)

	status := strings.ToUpper(strings.TrimSpace(c.Ctx.Input.Query("status")))
	limit, offset := parsePageParams(c.Ctx.Input.Query("limit"), c.Ctx.Input.Query("offset"))

	svc := newDrawQueryService()
	out, err := svc.ListDraws(c.Ctx.Request.Context(), status, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrBadRequest) {
			response.BadRequest(&c.Controller, "status must be OPEN or CLOSED", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}
