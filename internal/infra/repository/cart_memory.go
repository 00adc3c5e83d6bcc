package repository

import (
	"context"
	"sync"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	repo "github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"
)

// プロセス内のカート（再起動で消える）
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[string][]model.CartItem
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string][]model.CartItem)}
}

func (s *MemoryCartStore) Get(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCart(s.carts[sessionID]), nil
}

func (s *MemoryCartStore) Add(ctx context.Context, sessionID string, productID string, qty int64) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := repo.MergeCartItem(s.carts[sessionID], productID, qty)
	if err != nil {
		return nil, err
	}
	s.carts[sessionID] = items
	return cloneCart(items), nil
}

func (s *MemoryCartStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

// 呼び出し側が書き換えても中身に影響しないようコピーを返す
func cloneCart(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, len(items))
	copy(out, items)
	return out
}
