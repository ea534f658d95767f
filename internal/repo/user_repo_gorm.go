package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"gin-gorm-signup/internal/domain"
	"gin-gorm-signup/internal/feature/user"
)

const DefaultQueryTimeout = 5 * time.Second

type UserRepo struct {
	db      *gorm.DB
	timeout time.Duration
}

var _ domain.UserStore = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB, timeout time.Duration) *UserRepo {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &UserRepo{db: db, timeout: timeout}
}

// Migrate 建表；MySQL 默认排序规则大小写不敏感，email 列改为二进制排序
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&user.UserModel{}); err != nil {
		return err
	}
	if db.Dialector.Name() == "mysql" {
		return db.Exec("ALTER TABLE users MODIFY email VARCHAR(191) NOT NULL COLLATE utf8mb4_bin").Error
	}
	return nil
}

func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var n int64
	err := r.db.WithContext(ctx).Model(&user.UserModel{}).Where("email = ?", email).Count(&n).Error
	if err != nil {
		return false, unavailable("exists", err)
	}
	return n > 0, nil
}

func (r *UserRepo) Insert(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	m := user.UserModel{Email: email, PasswordHash: passwordHash}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDupKey(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, unavailable("insert", err)
	}
	return m.ToDomain(), nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, op, err)
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// 兜底：未开启 TranslateError 或驱动差异时按错误文案判断
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
