package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/profile-pages/internal/domain/page"
)

const pageKeyPrefix = "page:"

type redisPageCache struct {
	rdb redis.UniversalClient
}

// NewRedisPageCache stores generated pages as JSON under "page:{path}".
func NewRedisPageCache(rdb redis.UniversalClient) page.Cache {
	return &redisPageCache{rdb: rdb}
}

func (c *redisPageCache) Get(ctx context.Context, path string) (*page.CachedPage, error) {
	b, err := c.rdb.Get(ctx, pageKeyPrefix+path).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", path, err)
	}

	p := &page.CachedPage{}
	if err := json.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("decode cached page %s: %w", path, err)
	}
	return p, nil
}

func (c *redisPageCache) Set(ctx context.Context, p *page.CachedPage, ttl time.Duration) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode page %s: %w", p.Path, err)
	}
	if err := c.rdb.Set(ctx, pageKeyPrefix+p.Path, b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", p.Path, err)
	}
	return nil
}

func (c *redisPageCache) Delete(ctx context.Context, path string) error {
	if err := c.rdb.Del(ctx, pageKeyPrefix+path).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", path, err)
	}
	return nil
}
