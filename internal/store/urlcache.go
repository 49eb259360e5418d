package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// URLCache maps short opaque ids to full URLs so button payloads stay
// small. Entries are single-use: Consume deletes on read, and the TTL is
// only a backstop for abandoned selections.
type URLCache struct {
	kv  KV
	ttl time.Duration
}

func NewURLCache(kv KV, ttl time.Duration) *URLCache {
	return &URLCache{kv: kv, ttl: ttl}
}

func urlKey(id string) string { return "url:" + id }

// Put stores url under a fresh short id. The id hashes the URL together
// with the submission time so resubmitting the same URL never collides
// with a still-pending selection.
func (c *URLCache) Put(ctx context.Context, url string) (string, error) {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", url, time.Now().UnixNano())))
	id := hex.EncodeToString(sum[:8])

	if err := c.kv.Set(ctx, urlKey(id), url, c.ttl); err != nil {
		return "", err
	}
	return id, nil
}

// Consume returns the URL for id and removes the entry. A second call
// with the same id reports ErrNotFound, same as an expired entry.
func (c *URLCache) Consume(ctx context.Context, id string) (string, error) {
	return c.kv.GetDel(ctx, urlKey(id))
}

// Discard drops a pending entry, used when the user cancels.
func (c *URLCache) Discard(ctx context.Context, id string) {
	c.kv.Delete(ctx, urlKey(id))
}
