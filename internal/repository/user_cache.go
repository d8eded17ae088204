package repository

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/identity-service/internal/config"
	"github.com/iliyamo/identity-service/internal/model"
)

// UserCache is a best-effort read-through cache for the admin user listing.
// It stores only the non-sensitive projection of the table; password hashes
// never reach Redis.  Any cache failure degrades to the database and is
// logged.  Writes that could change the listing call Invalidate rather
// than updating the entry in place.
type UserCache struct {
	rdb *redis.Client // nil disables the cache entirely
	cfg config.CacheConfig
}

func NewUserCache(rdb *redis.Client, cfg config.CacheConfig) *UserCache {
	return &UserCache{rdb: rdb, cfg: cfg}
}

// CachedUser is the projection of a user row that is safe to cache and to
// return to admin clients.
type CachedUser struct {
	ID          uint64    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *UserCache) enabled() bool { return c != nil && c.rdb != nil && c.cfg.Enabled }

func (c *UserCache) key() string { return c.cfg.Prefix + ":users:list" }

// Get returns the cached listing, or ok=false on miss, disabled cache or
// any Redis error.
func (c *UserCache) Get(ctx context.Context) ([]CachedUser, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.key()).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("user-cache: get failed: %v", err)
		return nil, false
	}
	var users []CachedUser
	if err := json.Unmarshal(raw, &users); err != nil {
		log.Printf("user-cache: corrupt entry dropped: %v", err)
		_ = c.rdb.Del(ctx, c.key()).Err()
		return nil, false
	}
	return users, true
}

// Set stores the projected listing with the configured TTL.
func (c *UserCache) Set(ctx context.Context, users []model.User) {
	if !c.enabled() {
		return
	}
	projected := Project(users)
	raw, err := json.Marshal(projected)
	if err != nil {
		log.Printf("user-cache: marshal failed: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, c.key(), raw, c.cfg.TTL).Err(); err != nil {
		log.Printf("user-cache: set failed: %v", err)
	}
}

// Invalidate drops the cached listing.  Called after any write that could
// affect it (create, verify, role change, delete).
func (c *UserCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.rdb.Del(ctx, c.key()).Err(); err != nil {
		log.Printf("user-cache: invalidate failed: %v", err)
	}
}

// Project strips a slice of user rows down to the cacheable view.
func Project(users []model.User) []CachedUser {
	out := make([]CachedUser, 0, len(users))
	for _, u := range users {
		out = append(out, CachedUser{
			ID:          u.ID,
			Username:    u.Username,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			Role:        u.Role,
			Verified:    u.Verified,
			CreatedAt:   u.CreatedAt,
		})
	}
	return out
}
