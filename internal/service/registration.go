package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"gin-gorm-signup/internal/domain"
	"gin-gorm-signup/internal/validation"
	"gin-gorm-signup/pkg/utils"
)

var signupTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "signup_attempts_total", Help: "Count of signup attempts by outcome"},
	[]string{"outcome"},
)

func init() { prometheus.MustRegister(signupTotal) }

// RegistrationService 无状态，可并发调用；唯一性依赖 store 的约束
type RegistrationService struct {
	store  domain.UserStore
	hasher utils.PasswordHasher
	log    *zap.Logger
}

func NewRegistrationService(store domain.UserStore, hasher utils.PasswordHasher, l *zap.Logger) *RegistrationService {
	if l == nil {
		l = zap.NewNop()
	}
	return &RegistrationService{store: store, hasher: hasher, log: l}
}

// Register 业务失败（校验/重复）以结果返回；基础设施错误以 error 返回
func (s *RegistrationService) Register(ctx context.Context, req domain.SignupRequest) (domain.SignupResult, error) {
	if f := validation.Validate(req.Email, req.Password, req.ConfirmPassword); f != validation.None {
		signupTotal.WithLabelValues("invalid").Inc()
		s.log.Debug("signup rejected", zap.String("reason", f.String()))
		return domain.Rejected(f), nil
	}

	// 预检只为尽早给出友好提示，最终以 Insert 的唯一约束为准
	exists, err := s.store.Exists(ctx, req.Email)
	if err != nil {
		return s.fail("exists", req.Email, err)
	}
	if exists {
		signupTotal.WithLabelValues("duplicate").Inc()
		return domain.Rejected(validation.DuplicateEmail), nil
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return s.fail("hash", req.Email, err)
	}

	u, err := s.store.Insert(ctx, req.Email, hashed)
	if errors.Is(err, domain.ErrDuplicateEmail) {
		signupTotal.WithLabelValues("duplicate").Inc()
		s.log.Info("signup lost insert race", zap.String("email", req.Email))
		return domain.Rejected(validation.DuplicateEmail), nil
	}
	if err != nil {
		return s.fail("insert", req.Email, err)
	}

	signupTotal.WithLabelValues("success").Inc()
	s.log.Info("user registered", zap.Int64("id", u.ID), zap.String("email", u.Email))
	return domain.Registered(u), nil
}

// EmailExists 只读查询，区分大小写
func (s *RegistrationService) EmailExists(ctx context.Context, email string) (bool, error) {
	ok, err := s.store.Exists(ctx, email)
	if err != nil {
		s.log.Error("email exists check failed", zap.String("email", email), zap.Error(err))
		return false, fmt.Errorf("check email: %w", err)
	}
	return ok, nil
}

func (s *RegistrationService) fail(stage, email string, err error) (domain.SignupResult, error) {
	signupTotal.WithLabelValues("error").Inc()
	s.log.Error("signup failed", zap.String("stage", stage), zap.String("email", email), zap.Error(err))
	return domain.SignupResult{}, fmt.Errorf("signup %s: %w", stage, err)
}
