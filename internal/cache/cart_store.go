package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/bakery-next/internal/models"

	"github.com/google/uuid"
)

const (
	defaultCartTTL     = 7 * 24 * time.Hour
	cartLockTTL        = 5 * time.Second
	cartLockWait       = 3 * time.Second
	cartLockRetryDelay = 25 * time.Millisecond
	localSweepInterval = time.Minute
)

// ErrCartLockTimeout 获取购物车锁超时
var ErrCartLockTimeout = errors.New("购物车正在被其他请求修改")

// CartItem 购物车行
type CartItem struct {
	ProductID uint         `json:"product_id"`
	VariantID uint         `json:"variant_id,omitempty"`
	Name      string       `json:"name"`
	Qty       int          `json:"qty"`
	Price     models.Money `json:"price"`
}

// CartState 会话购物车快照
type CartState struct {
	Token      string     `json:"token"`
	Items      []CartItem `json:"items"`
	CouponID   uint       `json:"coupon_id,omitempty"`
	CouponCode string     `json:"coupon_code,omitempty"`
	UpdatedAt  int64      `json:"updated_at"`
}

// Clone 深拷贝，避免本地存储被调用方修改
func (s *CartState) Clone() *CartState {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Items = append([]CartItem(nil), s.Items...)
	return &clone
}

type localCartEntry struct {
	state     *CartState
	expiresAt time.Time
}

// localCartLock 进程内会话锁，引用计数归零时从表中移除
type localCartLock struct {
	mu   sync.Mutex
	refs int
}

// CartStore 购物车会话存储，Redis 可用时写 Redis，否则使用进程内存储
type CartStore struct {
	ttl time.Duration

	mu        sync.Mutex
	local     map[string]localCartEntry
	locks     map[string]*localCartLock
	lastSweep time.Time
}

// NewCartStore 创建购物车存储
func NewCartStore(ttl time.Duration) *CartStore {
	if ttl <= 0 {
		ttl = defaultCartTTL
	}
	return &CartStore{
		ttl:   ttl,
		local: make(map[string]localCartEntry),
		locks: make(map[string]*localCartLock),
	}
}

func cartKey(token string) string {
	return "cart:" + token
}

func cartLockKey(token string) string {
	return "cart:lock:" + token
}

// Load 读取购物车，不存在时返回空购物车
func (s *CartStore) Load(ctx context.Context, token string) (*CartState, error) {
	token = strings.TrimSpace(token)
	empty := &CartState{Token: token, Items: []CartItem{}}
	if token == "" {
		return empty, nil
	}
	if Enabled() {
		var state CartState
		found, err := GetJSON(ctx, cartKey(token), &state)
		if err != nil {
			return nil, err
		}
		if !found {
			return empty, nil
		}
		if state.Items == nil {
			state.Items = []CartItem{}
		}
		return &state, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.local[token]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.local, token)
		return empty, nil
	}
	return entry.state.Clone(), nil
}

// Save 写入购物车并刷新过期时间
func (s *CartStore) Save(ctx context.Context, state *CartState) error {
	if state == nil || strings.TrimSpace(state.Token) == "" {
		return nil
	}
	state.UpdatedAt = time.Now().Unix()
	if Enabled() {
		return SetJSON(ctx, cartKey(state.Token), state, s.ttl)
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepExpiredLocked(now)
	s.local[state.Token] = localCartEntry{state: state.Clone(), expiresAt: now.Add(s.ttl)}
	return nil
}

// sweepExpiredLocked 定期清理过期的本地购物车，调用方需持有 s.mu
func (s *CartStore) sweepExpiredLocked(now time.Time) {
	if now.Sub(s.lastSweep) < localSweepInterval {
		return
	}
	s.lastSweep = now
	for token, entry := range s.local {
		if now.After(entry.expiresAt) {
			delete(s.local, token)
		}
	}
}

// Delete 删除购物车
func (s *CartStore) Delete(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if Enabled() {
		return Del(ctx, cartKey(token))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.local, token)
	return nil
}

// WithLock 在会话锁内执行购物车修改
func (s *CartStore) WithLock(ctx context.Context, token string, fn func() error) error {
	if fn == nil {
		return nil
	}
	if Enabled() {
		return s.withRedisLock(ctx, token, fn)
	}
	lock := s.acquireLocalLock(token)
	defer s.releaseLocalLock(token, lock)
	return fn()
}

func (s *CartStore) withRedisLock(ctx context.Context, token string, fn func() error) error {
	key := cartLockKey(token)
	value := uuid.NewString()
	deadline := time.Now().Add(cartLockWait)
	for {
		ok, err := TryLock(ctx, key, value, cartLockTTL)
		if err != nil {
			return err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return ErrCartLockTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cartLockRetryDelay):
		}
	}
	// 释放锁不受请求取消影响
	defer func() { _ = Unlock(context.WithoutCancel(ctx), key, value) }()
	return fn()
}

func (s *CartStore) acquireLocalLock(token string) *localCartLock {
	s.mu.Lock()
	lock, ok := s.locks[token]
	if !ok {
		lock = &localCartLock{}
		s.locks[token] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (s *CartStore) releaseLocalLock(token string, lock *localCartLock) {
	lock.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	lock.refs--
	if lock.refs <= 0 {
		delete(s.locks, token)
	}
}
