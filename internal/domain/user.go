package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrStoreUnavailable = errors.New("user store unavailable")
)

// User 持久化的用户记录
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Summary 对外暴露的用户摘要（不含密码哈希）
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Email: u.Email}
}

type UserSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// UserStore 唯一性由实现方保证；Exists 只是快速预检
type UserStore interface {
	Exists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, email, passwordHash string) (*User, error)
}
