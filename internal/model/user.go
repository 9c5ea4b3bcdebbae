package model

import (
	"context"
	"database/sql"
	"time"

	"github.com/phitthaya2548/lottobackend/common"
	"github.com/phitthaya2548/lottobackend/common/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// User 对应 users 表
// role: MEMBER=普通用户 ADMIN=管理员
type User struct {
	ID           int64          `db:"id"`
	Username     string         `db:"username"`
	PasswordHash string         `db:"password_hash"`
	Phone        sql.NullString `db:"phone"`
	Role         string         `db:"role"`
	Status       int8           `db:"status"` // 1=正常 2=禁用
	CreatedAt    int64          `db:"created_at"`
	UpdatedAt    int64          `db:"updated_at"`
}

const userColumns = `id, username, password_hash, phone, role, status, created_at, updated_at`

// GetUserByUsername 按用户名查询
func GetUserByUsername(ctx context.Context, db *sqlx.DB, username string) (*User, error) {
	sqlStr := `SELECT ` + userColumns + ` FROM users WHERE username = ? LIMIT 1`

	var u User
	err := db.GetContext(ctx, &u, sqlStr, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		logger.Error("get user by username failed",
			zap.String("username", username),
			zap.Error(err))
		return nil, err
	}
	return &u, nil
}

// GetUserByID 按内部ID查询
func GetUserByID(ctx context.Context, db *sqlx.DB, userID int64) (*User, error) {
	sqlStr := `SELECT ` + userColumns + ` FROM users WHERE id = ? LIMIT 1`

	var u User
	err := db.GetContext(ctx, &u, sqlStr, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		logger.Error("get user by id failed",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return nil, err
	}
	return &u, nil
}

// Insert 插入用户，username 唯一键冲突由调用方处理
func (u *User) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = "MEMBER"
	}
	if u.Status == 0 {
		u.Status = 1
	}

	sqlStr := `INSERT INTO users (username, password_hash, phone, role, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := exec.ExecContext(ctx, sqlStr,
		u.Username, u.PasswordHash, u.Phone, u.Role, u.Status, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return err
	}

	id, _ := res.LastInsertId()
	u.ID = id

	logger.Info("user created",
		zap.Int64("id", u.ID),
		zap.String("username", u.Username),
		zap.String("role", u.Role))
	return nil
}

// UpdateUserPhone 修改联系电话（资料编辑）
func UpdateUserPhone(ctx context.Context, exec sqlx.ExtContext, userID int64, phone string) error {
	now := time.Now().UnixMilli()
	sqlStr := `UPDATE users SET phone = ?, updated_at = ? WHERE id = ?`
	_, err := exec.ExecContext(ctx, sqlStr, phone, now, userID)
	return err
}

// CountUsers 注册用户总数（管理端报表）
func CountUsers(db *sqlx.DB) (int, error) {
	return common.Count(db, "users")
}
