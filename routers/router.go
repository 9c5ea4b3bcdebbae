package routers

import (
	"github.com/phitthaya2548/lottobackend/internal/controller/api"
	"github.com/phitthaya2548/lottobackend/internal/metrics"
	"github.com/phitthaya2548/lottobackend/internal/middleware"

	beego "github.com/beego/beego/v2/server/web"
)

// init 注册HTTP路由与全局过滤器
// 过滤器注册时配置可能尚未加载，CORS/限流/管理员认证过滤器
// 都在请求时自行读取配置并按开关降级
func init() {
	// 全局过滤器（按执行顺序）
	// 1. Panic Recovery（最先执行，捕获所有 panic）
	beego.InsertFilter("/*", beego.BeforeRouter, middleware.RecoveryFilter)

	// 2. 请求ID注入
	beego.InsertFilter("/*", beego.BeforeRouter, middleware.RequestIDFilter)

	// 3. CORS 处理（启用与否在过滤器内判断）
	beego.InsertFilter("/*", beego.BeforeExec, middleware.CORSFilter)

	// 4. HTTP 指标收集
	beego.InsertFilter("/*", beego.BeforeExec, metrics.HTTPMetricsFilter)
	beego.InsertFilter("/*", beego.FinishRouter, metrics.HTTPMetricsAfter)

	// 健康检查（无需认证）
	beego.Router("/healthz", &api.HealthController{}, "get:Healthz")
	beego.Router("/readyz", &api.HealthController{}, "get:Readyz")

	// ========== 公开 API ==========

	// 注册 / 登录
	beego.Router("/api/auth/register", &api.AccountController{}, "post:Register")
	beego.Router("/api/auth/login", &api.AccountController{}, "post:Login")

	// 期次与开奖结果查询
	beego.Router("/api/draws", &api.DrawController{}, "get:List")
	beego.Router("/api/draws/current", &api.DrawController{}, "get:Current")
	beego.Router("/api/draws/latest", &api.DrawController{}, "get:Latest")
	beego.Router("/api/draws/:draw_number([0-9]+)", &api.DrawController{}, "get:Get")

	// ========== 用户 API（JWT 认证 + 限流） ==========

	for _, pattern := range []string{
		"/api/tickets/*",
		"/api/prize/*",
		"/api/wallet/*",
		"/api/auth/profile",
		"/api/auth/logout",
	} {
		beego.InsertFilter(pattern, beego.BeforeExec, middleware.UserAuthFilter)
		beego.InsertFilter(pattern, beego.BeforeExec, middleware.RateLimitFilter)
	}

	beego.Router("/api/auth/profile", &api.AccountController{}, "get:Profile;put:UpdateProfile")
	beego.Router("/api/auth/logout", &api.AccountController{}, "post:Logout")

	beego.Router("/api/tickets/buy", &api.TicketController{}, "post:Buy")
	beego.Router("/api/tickets/my", &api.TicketController{}, "get:My")
	beego.Router("/api/tickets/availability", &api.TicketController{}, "get:Availability")

	beego.Router("/api/prize/check", &api.PrizeController{}, "post:Check")
	beego.Router("/api/prize/claim", &api.PrizeController{}, "post:Claim")

	beego.Router("/api/wallet/balance", &api.WalletController{}, "get:Balance")
	beego.Router("/api/wallet/deposit", &api.WalletController{}, "post:Deposit")
	beego.Router("/api/wallet/transactions", &api.WalletController{}, "get:Transactions")

	// ========== 管理 API（管理员认证） ==========

	beego.InsertFilter("/api/admin/*", beego.BeforeExec, middleware.AdminAuthFilter)
	beego.Router("/api/admin/settle", &api.SettleController{}, "post:Settle")
	beego.Router("/api/admin/stats", &api.StatsController{}, "get:Summary")
	beego.Router("/api/admin/stats/draw", &api.StatsController{}, "get:Draw")
}
