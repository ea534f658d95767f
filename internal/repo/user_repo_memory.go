package repo

import (
	"context"
	"sync"
	"time"

	"gin-gorm-signup/internal/domain"
)

// MemoryUserRepo 进程内实现，用于测试和 db.driver=memory 的本地运行
type MemoryUserRepo struct {
	mu      sync.Mutex
	nextID  int64
	byEmail map[string]*domain.User
	now     func() time.Time
}

var _ domain.UserStore = (*MemoryUserRepo)(nil)

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{byEmail: map[string]*domain.User{}, now: time.Now}
}

func (r *MemoryUserRepo) Exists(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, unavailable("exists", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *MemoryUserRepo) Insert(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("insert", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[email]; ok {
		return nil, domain.ErrDuplicateEmail
	}
	r.nextID++
	u := &domain.User{ID: r.nextID, Email: email, PasswordHash: passwordHash, CreatedAt: r.now()}
	r.byEmail[email] = u
	cp := *u
	return &cp, nil
}

// Get 按 email 取记录副本
func (r *MemoryUserRepo) Get(email string) (*domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

func (r *MemoryUserRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEmail)
}
