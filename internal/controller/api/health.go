package api

import (
	"context"
	"time"

	infmysql "github.com/phitthaya2548/lottobackend/internal/infra/mysql"
	infrds "github.com/phitthaya2548/lottobackend/internal/infra/redis"

	beego "github.com/beego/beego/v2/server/web"
)

// HealthController 提供健康检查端点：/healthz 与 /readyz

type HealthController struct{ beego.Controller }

// Healthz 存活探针：仅返回进程存活
func (c *HealthController) Healthz() {
	c.Ctx.Output.SetStatus(200)
	_ = c.Ctx.Output.Body([]byte("ok"))
}

// Readyz 就绪探针：探测 MySQL 与 Redis 连通性
// Redis 属于可降级依赖，探测失败不影响就绪判定
func (c *HealthController) Readyz() {
	ctx := c.Ctx.Request.Context()

	if db := infmysql.DB(); db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			c.Ctx.Output.SetStatus(503)
			_ = c.Ctx.Output.Body([]byte("mysql not ready"))
			return
		}
	}

	status := "ready"
	if r := infrds.Client(); r != nil {
		if err := r.Ping(ctx).Err(); err != nil {
			status = "ready (redis degraded)"
		}
	}

	c.Ctx.Output.SetStatus(200)
	_ = c.Ctx.Output.Body([]byte(status))
}
