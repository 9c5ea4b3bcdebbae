package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	chelper "github.com/phitthaya2548/lottobackend/common/helper"

	"github.com/phitthaya2548/lottobackend/common/constant"
	"github.com/phitthaya2548/lottobackend/internal/auth"
	infmysql "github.com/phitthaya2548/lottobackend/internal/infra/mysql"
	"github.com/phitthaya2548/lottobackend/internal/model"
)

// RegisterInput 注册输入
type RegisterInput struct {
	Username string
	Password string
	Phone    string
	TraceID  string
}

// LoginInput 登录输入
type LoginInput struct {
	Username string
	Password string
	TraceID  string
}

// TokenPair 令牌对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AccountOutput 账号信息输出
type AccountOutput struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
}

// LoginOutput 登录输出
type LoginOutput struct {
	AccountOutput
	TokenPair
}

// ProfileOutput 个人中心输出：账号信息 + 钱包余额 + 名下票数
type ProfileOutput struct {
	AccountOutput
	Balance     string `json:"balance"`
	TicketCount int    `json:"ticket_count"`
}

type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*LoginOutput, error)
	Login(ctx context.Context, in LoginInput) (*LoginOutput, error)
	Profile(ctx context.Context, userID int64) (*ProfileOutput, error)
	UpdateProfile(ctx context.Context, userID int64, phone string) (*AccountOutput, error)
}

type accountService struct{}

func NewAccountService() AccountService { return &accountService{} }

// Register 注册新用户：用户名唯一键冲突即已占用，注册成功直接下发令牌
func (s *accountService) Register(ctx context.Context, in RegisterInput) (*LoginOutput, error) {
	if in.Username == "" || in.Password == "" {
		return nil, ErrBadRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         constant.RoleMember,
	}
	if in.Phone != "" {
		u.Phone = sql.NullString{String: in.Phone, Valid: true}
	}
	if err := u.Insert(ctx, infmysql.SQLX()); err != nil {
		if model.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	fmt.Printf("[Account] 注册成功: user_id=%d, username=%s, trace_id=%s\n",
		u.ID, u.Username, in.TraceID)
	return issueTokens(u)
}

// Login 登录：常数时间比较密码哈希，禁用账号拒绝下发令牌
func (s *accountService) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	if in.Username == "" || in.Password == "" {
		return nil, ErrBadRequest
	}

	u, err := model.GetUserByUsername(ctx, infmysql.SQLX(), in.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		fmt.Printf("[Account] 密码校验失败: username=%s, trace_id=%s\n", in.Username, in.TraceID)
		return nil, ErrInvalidCredentials
	}
	if u.Status != 1 {
		return nil, ErrUserDisabled
	}

	fmt.Printf("[Account] 登录成功: user_id=%d, username=%s, trace_id=%s\n",
		u.ID, u.Username, in.TraceID)
	return issueTokens(u)
}

// Profile 个人中心：账号信息、钱包余额（未开钱包视为 0）、名下票数
func (s *accountService) Profile(ctx context.Context, userID int64) (*ProfileOutput, error) {
	if userID <= 0 {
		return nil, ErrBadRequest
	}
	db := infmysql.SQLX()
	u, err := model.GetUserByID(ctx, db, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	balance := "0.00"
	w, err := model.GetWalletByUserID(ctx, db, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		balance = chelper.TrimDecimal(w.Balance)
	}

	ticketCount, err := model.CountTicketsByBuyer(db, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{
		AccountOutput: *toAccountOutput(u),
		Balance:       balance,
		TicketCount:   ticketCount,
	}, nil
}

// UpdateProfile 资料编辑，当前可改联系电话
func (s *accountService) UpdateProfile(ctx context.Context, userID int64, phone string) (*AccountOutput, error) {
	if userID <= 0 {
		return nil, ErrBadRequest
	}
	db := infmysql.SQLX()
	u, err := model.GetUserByID(ctx, db, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := model.UpdateUserPhone(ctx, db, userID, phone); err != nil {
		return nil, err
	}
	u.Phone = sql.NullString{String: phone, Valid: phone != ""}

	fmt.Printf("[Account] 资料更新: user_id=%d\n", userID)
	return toAccountOutput(u), nil
}

func issueTokens(u *model.User) (*LoginOutput, error) {
	access, err := auth.GenerateAccessToken(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateRefreshToken(u.ID, u.Username, u.Role)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{
		AccountOutput: *toAccountOutput(u),
		TokenPair:     TokenPair{AccessToken: access, RefreshToken: refresh},
	}, nil
}

func toAccountOutput(u *model.User) *AccountOutput {
	out := &AccountOutput{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
	if u.Phone.Valid {
		out.Phone = u.Phone.String
	}
	return out
}
