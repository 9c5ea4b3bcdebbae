package api

import (
	"errors"
	"strings"

	helper "github.com/phitthaya2548/lottobackend/internal/common/helper"
	"github.com/phitthaya2548/lottobackend/internal/common/response"
	"github.com/phitthaya2548/lottobackend/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newWalletService = service.NewWalletService

// WalletController 钱包接口（需登录）
type WalletController struct{ beego.Controller }

// Balance 余额查询：GET /api/wallet/balance
func (c *WalletController) Balance() {
	traceID := helper.GetTraceID(c.Ctx)
	userID := helper.GetAuthUserID(c.Ctx)

	svc := newWalletService()
	out, err := svc.GetBalance(c.Ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrBadRequest) {
			response.BadRequest(&c.Controller, "invalid request", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Deposit 充值：POST /api/wallet/deposit
func (c *WalletController) Deposit() {
	traceID := helper.GetTraceID(c.Ctx)
	userID := helper.GetAuthUserID(c.Ctx)

	dp, ok, msg := helper.ParseAndValidateDeposit(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, traceID)
		return
	}

	svc := newWalletService()
	out, err := svc.Deposit(c.Ctx.Request.Context(), service.DepositInput{
		UserID:  userID,
		Amount:  dp.Amount,
		TraceID: traceID,
	})
	if err != nil {
		if errors.Is(err, service.ErrBadRequest) {
			response.BadRequest(&c.Controller, "amount must be positive", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}

// Transactions 账变明细：GET /api/wallet/transactions?tx_type=&limit=&offset=
func (c *WalletController) Transactions() {
	traceID := helper.GetTraceID(c.Ctx)
	userID := helper.GetAuthUserID(c.Ctx)

	txType := strings.ToUpper(strings.TrimSpace(c.Ctx.Input.Query("tx_type")))
	limit, offset := parsePageParams(c.Ctx.Input.Query("limit"), c.Ctx.Input.Query("offset"))

	svc := newWalletService()
	out, err := svc.ListTransactions(c.Ctx.Request.Context(), userID, txType, limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrBadRequest) {
			response.BadRequest(&c.Controller, "invalid tx_type", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, out, traceID)
}
