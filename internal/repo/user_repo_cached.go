package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gin-gorm-signup/internal/core/cache"
	"gin-gorm-signup/internal/domain"
)

const emailKeyPrefix = "signup:email:"

type emailEntry struct {
	ID int64 `json:"id,omitempty"`
}

// CachedUserRepo 只缓存"已注册"结论；未注册从不缓存，唯一性仍以底层存储为准
type CachedUserRepo struct {
	inner domain.UserStore
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

var _ domain.UserStore = (*CachedUserRepo)(nil)

func NewCachedUserRepo(inner domain.UserStore, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CachedUserRepo {
	if l == nil {
		l = zap.NewNop()
	}
	return &CachedUserRepo{inner: inner, cache: c, ttl: ttl, log: l}
}

func EmailKey(email string) string { return emailKeyPrefix + email }

func (r *CachedUserRepo) Exists(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	e, err := cache.GetOrLoadJSON(r.cache, ctx, EmailKey(email), r.ttl, func(ctx context.Context) (*emailEntry, error) {
		ok, err := r.inner.Exists(ctx, email)
		if err != nil || !ok {
			return nil, err
		}
		return &emailEntry{}, nil
	})
	if err != nil {
		return false, err
	}
	return e != nil, nil
}

func (r *CachedUserRepo) Insert(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	u, err := r.inner.Insert(ctx, email, passwordHash)
	if err != nil {
		return nil, err
	}
	if e := cache.SetJSON(r.cache, ctx, EmailKey(email), &emailEntry{ID: u.ID}, r.ttl); e != nil {
		r.log.Warn("cache email failed", zap.String("email", email), zap.Error(e))
	}
	return u, nil
}
