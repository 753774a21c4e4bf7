package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/refarm-eos/refarm-backend/pkg/errors"
)

// Store persists cart snapshots keyed by the owning LINE user.
type Store interface {
	Load(ctx context.Context, ownerID string) (*Snapshot, error)
	Save(ctx context.Context, ownerID string, snap *Snapshot) error
	Delete(ctx context.Context, ownerID string) error
}

type kv interface {
	CartKey(ownerID string) string
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type redisStore struct {
	client kv
	ttl    time.Duration
}

// NewRedisStore returns a Store backed by the shared Redis client. The TTL is
// refreshed on every write so active carts never expire mid-session.
func NewRedisStore(client kv, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("cart ttl must be positive")
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

func (s *redisStore) Load(ctx context.Context, ownerID string) (*Snapshot, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(ownerID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cart snapshot")
	}
	snap.normalize()
	return &snap, nil
}

func (s *redisStore) Save(ctx context.Context, ownerID string, snap *Snapshot) error {
	if snap == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "snapshot required")
	}
	snap.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(snap)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "encode cart snapshot")
	}
	if err := s.client.Set(ctx, s.client.CartKey(ownerID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart snapshot")
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, ownerID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(ownerID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart snapshot")
	}
	return nil
}
