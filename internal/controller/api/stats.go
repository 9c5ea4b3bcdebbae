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

var newStatsService = service.NewStatsService

// StatsController 管理端报表接口（仅管理员）
type StatsController struct{ beego.Controller }

// Summary 全局汇总：GET /api/admin/stats
func (c *StatsController) Summary() {
	traceID := helper.GetTraceID(c.Ctx)

	svc := newStatsService()
	out, err := svc.Summary(c.Ctx.Request.Context())
	if err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Draw 单期统计：GET /api/admin/stats/draw?draw_number=
func (c *StatsController) Draw() {
	traceID := helper.GetTraceID(c.Ctx)

	dn := strings.TrimSpace(c.Ctx.Input.Query("draw_number"))
	drawNumber, err := strconv.ParseInt(dn, 10, 64)
	if err != nil || drawNumber <= 0 {
		response.BadRequest(&c.Controller, "draw_number must be positive integer", traceID)
		return
	}

	svc := newStatsService()
	out, err := svc.DrawStats(c.Ctx.Request.Context(), drawNumber)
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
