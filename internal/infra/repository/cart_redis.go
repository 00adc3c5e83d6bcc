package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"
	repo "github.com/FariidCabrera/marketplace-itpuebla1/internal/repository"

	radix "github.com/mediocregopher/radix/v3"
)

const (
	redisCartKeyPrefix = "cart:"
	redisCartMaxRetry  = 10
)

var ErrCartContention = errors.New("cart update contention")

// Redisのカート。値は[]CartItemのJSON、TTLはセッションの寿命に合わせる。
type RedisCartStore struct {
	client radix.Client
	ttl    time.Duration
}

func NewRedisCartStore(client radix.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

func (s *RedisCartStore) key(sessionID string) string {
	return redisCartKeyPrefix + sessionID
}

func (s *RedisCartStore) Get(ctx context.Context, sessionID string) ([]model.CartItem, error) {
	var raw []byte
	mn := radix.MaybeNil{Rcv: &raw}
	if err := s.client.Do(radix.Cmd(&mn, "GET", s.key(sessionID))); err != nil {
		return nil, err
	}
	if mn.Nil {
		return []model.CartItem{}, nil
	}
	return decodeCart(raw)
}

// WATCH/MULTI/EXEC の楽観ロック。競合したら読み直す（上限あり）。
func (s *RedisCartStore) Add(ctx context.Context, sessionID string, productID string, qty int64) ([]model.CartItem, error) {
	key := s.key(sessionID)

	for attempt := 0; attempt < redisCartMaxRetry; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var (
			items     []model.CartItem
			committed bool
		)
		err := s.client.Do(radix.WithConn(key, func(conn radix.Conn) error {
			if err := conn.Do(radix.Cmd(nil, "WATCH", key)); err != nil {
				return err
			}

			var raw []byte
			mn := radix.MaybeNil{Rcv: &raw}
			if err := conn.Do(radix.Cmd(&mn, "GET", key)); err != nil {
				return err
			}
			current := []model.CartItem{}
			if !mn.Nil {
				decoded, err := decodeCart(raw)
				if err != nil {
					_ = conn.Do(radix.Cmd(nil, "UNWATCH"))
					return err
				}
				current = decoded
			}

			merged, err := repo.MergeCartItem(current, productID, qty)
			if err != nil {
				_ = conn.Do(radix.Cmd(nil, "UNWATCH"))
				return err
			}
			items = merged
			data, err := json.Marshal(items)
			if err != nil {
				_ = conn.Do(radix.Cmd(nil, "UNWATCH"))
				return err
			}

			if err := conn.Do(radix.Cmd(nil, "MULTI")); err != nil {
				return err
			}
			if err := conn.Do(radix.FlatCmd(nil, "SET", key, data, "EX", s.ttlSeconds())); err != nil {
				_ = conn.Do(radix.Cmd(nil, "DISCARD"))
				return err
			}

			// 他で書き換えられていたらEXECはnil
			var replies []string
			execMN := radix.MaybeNil{Rcv: &replies}
			if err := conn.Do(radix.Cmd(&execMN, "EXEC")); err != nil {
				return err
			}
			committed = !execMN.Nil
			return nil
		}))
		if err != nil {
			return nil, err
		}
		if committed {
			return items, nil
		}
	}
	return nil, ErrCartContention
}

func (s *RedisCartStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Do(radix.Cmd(nil, "DEL", s.key(sessionID)))
}

func (s *RedisCartStore) ttlSeconds() int {
	sec := int(s.ttl / time.Second)
	if sec <= 0 {
		sec = 1
	}
	return sec
}

func decodeCart(raw []byte) ([]model.CartItem, error) {
	items := []model.CartItem{}
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
