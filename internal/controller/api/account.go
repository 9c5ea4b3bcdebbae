package api

import (
	"errors"

	helper "github.com/phitthaya2548/lottobackend/internal/common/helper"
	"github.com/phitthaya2548/lottobackend/internal/common/response"
	"github.com/phitthaya2548/lottobackend/internal/service"

	"github.com/phitthaya2548/lottobackend/internal/auth"

	beego "github.com/beego/beego/v2/server/web"
)

var newAccountService = service.NewAccountService

// AccountController 注册/登录/资料/登出接口
type AccountController struct{ beego.Controller }

// Register 注册：POST /api/auth/register
func (c *AccountController) Register() {
	traceID := helper.GetTraceID(c.Ctx)

	cp, ok, msg := helper.ParseAndValidateCredentials(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	svc := newAccountService()
	out, err := svc.Register(c.Ctx.Request.Context(), service.RegisterInput{
		Username: cp.Username,
		Password: cp.Password,
		Phone:    cp.Phone,
		TraceID:  traceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadRequest):
			response.BadRequest(&c.Controller, "invalid request", traceID)
		case errors.Is(err, service.ErrUsernameTaken):
			response.Conflict(&c.Controller, response.CodeUsernameTaken, traceID)
		default:
			response.InternalError(&c.Controller, traceID)
		}
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Login 登录：POST /api/auth/login
func (c *AccountController) Login() {
	traceID := helper.GetTraceID(c.Ctx)

	cp, ok, msg := helper.ParseAndValidateCredentials(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	svc := newAccountService()
	out, err := svc.Login(c.Ctx.Request.Context(), service.LoginInput{
		Username: cp.Username,
		Password: cp.Password,
		TraceID:  traceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadRequest):
			response.BadRequest(&c.Controller, "invalid request", traceID)
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(&c.Controller, 401, response.CodeInvalidCredentials, traceID)
		case errors.Is(err, service.ErrUserDisabled):
			response.Forbidden(&c.Controller, response.CodeUserDisabled, traceID)
		default:
			response.InternalError(&c.Controller, traceID)
		}
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Profile 账号信息：GET /api/auth/profile
func (c *AccountController) Profile() {
	traceID := helper.GetTraceID(c.Ctx)
	userID := helper.GetAuthUserID(c.Ctx)

	svc := newAccountService()
	out, err := svc.Profile(c.Ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(&c.Controller, "用户不存在", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// UpdateProfile 资料编辑：PUT /api/auth/profile
func (c *AccountController) UpdateProfile() {
	traceID := helper.GetTraceID(c.Ctx)
	userID := helper.GetAuthUserID(c.Ctx)

	pe, ok, msg := helper.ParseAndValidateProfileEdit(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	svc := newAccountService()
	out, err := svc.UpdateProfile(c.Ctx.Request.Context(), userID, pe.Phone)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(&c.Controller, "用户不存在", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Logout 登出：POST /api/auth/logout
// 将当前令牌按 jti 加入黑名单，之后同令牌请求被拒
func (c *AccountController) Logout() {
	traceID := helper.GetTraceID(c.Ctx)

	claimsData := c.Ctx.Input.GetData("jwt_claims")
	claims, ok := claimsData.(*auth.JWTClaims)
	if !ok || claims == nil {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	var expiresAt = claims.ExpiresAt
	if expiresAt != nil {
		_ = auth.RevokeToken(c.Ctx.Request.Context(), claims.ID, expiresAt.Time)
	}
	response.Success(&c.Controller, nil, traceID)
}
