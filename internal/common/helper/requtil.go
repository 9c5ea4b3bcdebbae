package helper

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	beegocontext "github.com/beego/beego/v2/server/web/context"
)

// IsJSONContentType 判断是否为 JSON 请求
func IsJSONContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.Contains(ct, "json")
}

// 金额格式校验：非负，最多两位小数（预编译正则）
var moneyRe = regexp.MustCompile(`^(?:0|[1-9]\d*)(?:\.\d{1,2})?$`)

// IsMoneyFormat 判断金额格式
func IsMoneyFormat(s string) bool {
	return moneyRe.MatchString(strings.TrimSpace(s))
}

// 票号格式：恰好 6 位数字，允许前导 0
var ticketNumberRe = regexp.MustCompile(`^\d{6}$`)

// IsTicketNumberFormat 判断票号格式
func IsTicketNumberFormat(s string) bool {
	return ticketNumberRe.MatchString(s)
}

// 默认输入保护参数
const (
	defaultJSONMaxBytes int64         = 1 << 20 // 1MB
	defaultParseTimeout time.Duration = 1 * time.Second
)

type deadlineReader struct {
	r        io.Reader
	deadline time.Time
}

func (dr *deadlineReader) Read(p []byte) (int, error) {
	if time.Now().After(dr.deadline) {
		return 0, fmt.Errorf("read timeout")
	}
	return dr.r.Read(p)
}

// jsonBodyReader 在 JSON 分支下为请求体增加大小限制与解析超时保护
func jsonBodyReader(ctx *beegocontext.Context) io.Reader {
	lr := io.LimitReader(ctx.Request.Body, defaultJSONMaxBytes)
	return &deadlineReader{r: lr, deadline: time.Now().Add(defaultParseTimeout)}
}

// GetTraceID 统一提取 trace_id：优先从中间件注入的数据取，其次从常见请求头降级
func GetTraceID(ctx *beegocontext.Context) string {
	if v := ctx.Input.GetData("trace_id"); v != nil {
		return fmt.Sprint(v)
	}
	if h := strings.TrimSpace(ctx.Input.Header("X-Trace-ID")); h != "" {
		return h
	}
	if h := strings.TrimSpace(ctx.Input.Header("Trace-Id")); h != "" {
		return h
	}
	return ""
}

// GetAuthUserID 提取认证过滤器注入的用户ID，未认证返回 0
func GetAuthUserID(ctx *beegocontext.Context) int64 {
	if v := ctx.Input.GetData("user_id"); v != nil {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// parseByContentType 按 Content-Type 选择解析函数，减少重复 if/else 分支
func parseByContentType[T any](ctx *beegocontext.Context,
	jsonParser func(io.Reader) (T, bool, string),
	formParser func(*beegocontext.Context) (T, bool, string),
) (T, bool, string) {
	ct := ctx.Input.Header("Content-Type")
	if IsJSONContentType(ct) {
		return jsonParser(jsonBodyReader(ctx))
	}
	return formParser(ctx)
}

// -------- 购票入参 --------

// BuyParsed 为解析后的购票入参（与控制器/服务层解耦）
type BuyParsed struct {
	DrawNumber   int64  `json:"draw_number"`
	TicketNumber string `json:"ticket_number"`
}

// ParseBuyFromJSON 解析 JSON 到 BuyParsed。失败返回 false 与错误消息。
func ParseBuyFromJSON(r io.Reader) (BuyParsed, bool, string) {
	var out BuyParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return BuyParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

// ParseBuyFromForm 从表单读取购票字段
func ParseBuyFromForm(ctx *beegocontext.Context) (BuyParsed, bool, string) {
	var out BuyParsed
	out.TicketNumber = strings.TrimSpace(ctx.Input.Query("ticket_number"))
	if dn := strings.TrimSpace(ctx.Input.Query("draw_number")); dn != "" {
		v, err := strconv.ParseInt(dn, 10, 64)
		if err != nil {
			return BuyParsed{}, false, "draw_number must be integer"
		}
		out.DrawNumber = v
	}
	return out, true, ""
}

// ValidateBuy 对购票字段做统一校验（适用于 JSON 与 FORM）
func ValidateBuy(in *BuyParsed) (bool, string) {
	if in.DrawNumber < 0 {
		return false, "draw_number must be positive"
	}
	if !IsTicketNumberFormat(in.TicketNumber) {
		return false, "ticket_number must be exactly 6 digits"
	}
	return true, ""
}

// ParseAndValidateBuy 按 Content-Type 自动解析并做统一校验
func ParseAndValidateBuy(ctx *beegocontext.Context) (BuyParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseBuyFromJSON, ParseBuyFromForm)
	if !ok {
		return BuyParsed{}, false, msg
	}
	if ok, msg := ValidateBuy(&out); !ok {
		return BuyParsed{}, false, msg
	}
	return out, true, ""
}

// -------- 查奖 / 兑奖入参 --------

type ClaimParsed struct {
	DrawNumber   int64  `json:"draw_number"`
	TicketNumber string `json:"ticket_number"`
}

func ParseClaimFromJSON(r io.Reader) (ClaimParsed, bool, string) {
	var out ClaimParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return ClaimParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParseClaimFromForm(ctx *beegocontext.Context) (ClaimParsed, bool, string) {
	var out ClaimParsed
	out.TicketNumber = strings.TrimSpace(ctx.Input.Query("ticket_number"))
	dn := strings.TrimSpace(ctx.Input.Query("draw_number"))
	if dn == "" {
		return ClaimParsed{}, false, "draw_number required"
	}
	v, err := strconv.ParseInt(dn, 10, 64)
	if err != nil {
		return ClaimParsed{}, false, "draw_number must be integer"
	}
	out.DrawNumber = v
	return out, true, ""
}

func ValidateClaim(in *ClaimParsed) (bool, string) {
	if in.DrawNumber <= 0 {
		return false, "draw_number must be positive"
	}
	if !IsTicketNumberFormat(in.TicketNumber) {
		return false, "ticket_number must be exactly 6 digits"
	}
	return true, ""
}

// ParseAndValidateClaim 按 Content-Type 自动解析并校验
func ParseAndValidateClaim(ctx *beegocontext.Context) (ClaimParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseClaimFromJSON, ParseClaimFromForm)
	if !ok {
		return ClaimParsed{}, false, msg
	}
	if ok, msg := ValidateClaim(&out); !ok {
		return ClaimParsed{}, false, msg
	}
	return out, true, ""
}

// -------- 结算入参 --------

// SettleParsed 结算入参；金额字段为空串表示不覆盖
type SettleParsed struct {
	SourceMode  string `json:"source_mode"`
	UniqueExact *bool  `json:"unique_exact"`

	Prize1Amount string `json:"prize1_amount"`
	Prize2Amount string `json:"prize2_amount"`
	Prize3Amount string `json:"prize3_amount"`
	Last3Amount  string `json:"last3_amount"`
	Last2Amount  string `json:"last2_amount"`

	NextPrize1Amount string `json:"next_prize1_amount"`
	NextPrize2Amount string `json:"next_prize2_amount"`
	NextPrize3Amount string `json:"next_prize3_amount"`
	NextLast3Amount  string `json:"next_last3_amount"`
	NextLast2Amount  string `json:"next_last2_amount"`

	NextDrawDate string `json:"next_draw_date"`
	Operator     string `json:"operator"`
}

func ParseSettleFromJSON(r io.Reader) (SettleParsed, bool, string) {
	var out SettleParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return SettleParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParseSettleFromForm(ctx *beegocontext.Context) (SettleParsed, bool, string) {
	var out SettleParsed
	out.SourceMode = strings.TrimSpace(ctx.Input.Query("source_mode"))
	if ue := strings.TrimSpace(ctx.Input.Query("unique_exact")); ue != "" {
		b, err := strconv.ParseBool(ue)
		if err != nil {
			return SettleParsed{}, false, "unique_exact must be boolean"
		}
		out.UniqueExact = &b
	}
	out.Prize1Amount = strings.TrimSpace(ctx.Input.Query("prize1_amount"))
	out.Prize2Amount = strings.TrimSpace(ctx.Input.Query("prize2_amount"))
	out.Prize3Amount = strings.TrimSpace(ctx.Input.Query("prize3_amount"))
	out.Last3Amount = strings.TrimSpace(ctx.Input.Query("last3_amount"))
	out.Last2Amount = strings.TrimSpace(ctx.Input.Query("last2_amount"))
	out.NextPrize1Amount = strings.TrimSpace(ctx.Input.Query("next_prize1_amount"))
	out.NextPrize2Amount = strings.TrimSpace(ctx.Input.Query("next_prize2_amount"))
	out.NextPrize3Amount = strings.TrimSpace(ctx.Input.Query("next_prize3_amount"))
	out.NextLast3Amount = strings.TrimSpace(ctx.Input.Query("next_last3_amount"))
	out.NextLast2Amount = strings.TrimSpace(ctx.Input.Query("next_last2_amount"))
	out.NextDrawDate = strings.TrimSpace(ctx.Input.Query("next_draw_date"))
	out.Operator = strings.TrimSpace(ctx.Input.Query("operator"))
	return out, true, ""
}

func ValidateSettle(in *SettleParsed) (bool, string) {
	if in.SourceMode != "" && in.SourceMode != "ALL" && in.SourceMode != "SOLD_ONLY" {
		return false, "source_mode must be ALL or SOLD_ONLY"
	}
	for _, a := range []string{
		in.Prize1Amount, in.Prize2Amount, in.Prize3Amount, in.Last3Amount, in.Last2Amount,
		in.NextPrize1Amount, in.NextPrize2Amount, in.NextPrize3Amount, in.NextLast3Amount, in.NextLast2Amount,
	} {
		if a != "" && !IsMoneyFormat(a) {
			return false, "amounts must be numeric with up to 2 decimals"
		}
	}
	if in.NextDrawDate != "" {
		if _, err := time.Parse("2006-01-02", in.NextDrawDate); err != nil {
			return false, "next_draw_date must be yyyy-MM-dd"
		}
	}
	return true, ""
}

// ParseAndValidateSettle 按 Content-Type 自动解析并校验
func ParseAndValidateSettle(ctx *beegocontext.Context) (SettleParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseSettleFromJSON, ParseSettleFromForm)
	if !ok {
		return SettleParsed{}, false, msg
	}
	if ok, msg := ValidateSettle(&out); !ok {
		return SettleParsed{}, false, msg
	}
	return out, true, ""
}

// -------- 充值入参 --------

type DepositParsed struct {
	Amount string `json:"amount"`
}

func ParseDepositFromJSON(r io.Reader) (DepositParsed, bool, string) {
	var out DepositParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return DepositParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParseDepositFromForm(ctx *beegocontext.Context) (DepositParsed, bool, string) {
	return DepositParsed{Amount: strings.TrimSpace(ctx.Input.Query("amount"))}, true, ""
}

func ValidateDeposit(in *DepositParsed) (bool, string) {
	if in.Amount == "" || !IsMoneyFormat(in.Amount) {
		return false, "amount must be numeric with up to 2 decimals"
	}
	return true, ""
}

func ParseAndValidateDeposit(ctx *beegocontext.Context) (DepositParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseDepositFromJSON, ParseDepositFromForm)
	if !ok {
		return DepositParsed{}, false, msg
	}
	if ok, msg := ValidateDeposit(&out); !ok {
		return DepositParsed{}, false, msg
	}
	return out, true, ""
}

// -------- 注册 / 登录入参 --------

type CredentialsParsed struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func ParseCredentialsFromJSON(r io.Reader) (CredentialsParsed, bool, string) {
	var out CredentialsParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return CredentialsParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParseCredentialsFromForm(ctx *beegocontext.Context) (CredentialsParsed, bool, string) {
	return CredentialsParsed{
		Username: strings.TrimSpace(ctx.Input.Query("username")),
		Password: ctx.Input.Query("password"),
		Phone:    strings.TrimSpace(ctx.Input.Query("phone")),
	}, true, ""
}

func ValidateCredentials(in *CredentialsParsed) (bool, string) {
	if in.Username == "" || len(in.Username) < 3 || len(in.Username) > 32 {
		return false, "username must be 3-32 characters"
	}
	if len(in.Password) < 6 || len(in.Password) > 72 {
		return false, "password must be 6-72 characters"
	}
	return true, ""
}

func ParseAndValidateCredentials(ctx *beegocontext.Context) (CredentialsParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseCredentialsFromJSON, ParseCredentialsFromForm)
	if !ok {
		return CredentialsParsed{}, false, msg
	}
	if ok, msg := ValidateCredentials(&out); !ok {
		return CredentialsParsed{}, false, msg
	}
	return out, true, ""
}

// -------- 资料编辑入参 --------

type ProfileEditParsed struct {
	Phone string `json:"phone"`
}

func ParseProfileEditFromJSON(r io.Reader) (ProfileEditParsed, bool, string) {
	var out ProfileEditParsed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return ProfileEditParsed{}, false, "invalid json body"
	}
	return out, true, ""
}

func ParseProfileEditFromForm(ctx *beegocontext.Context) (ProfileEditParsed, bool, string) {
	return ProfileEditParsed{
		Phone: strings.TrimSpace(ctx.Input.Query("phone")),
	}, true, ""
}

func ValidateProfileEdit(in *ProfileEditParsed) (bool, string) {
	if len(in.Phone) > 20 {
		return false, "phone must be at most 20 characters"
	}
	return true, ""
}

func ParseAndValidateProfileEdit(ctx *beegocontext.Context) (ProfileEditParsed, bool, string) {
	out, ok, msg := parseByContentType(ctx, ParseProfileEditFromJSON, ParseProfileEditFromForm)
	if !ok {
		return ProfileEditParsed{}, false, msg
	}
	if ok, msg := ValidateProfileEdit(&out); !ok {
		return ProfileEditParsed{}, false, msg
	}
	return out, true, ""
}
