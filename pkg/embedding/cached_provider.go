package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedProvider memoizes another provider in process. The key is the model
// name plus a content hash, so the same text is only embedded upstream once
// per TTL. Both the cache lookup and the RAG lookup embed the same prompt, so
// this halves embedding calls on every cache miss.
type CachedProvider struct {
	upstream Provider
	model    string
	cache    *cache.Cache
}

func NewCachedProvider(upstream Provider, model string, ttl time.Duration) Provider {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &CachedProvider{
		upstream: upstream,
		model:    model,
		cache:    cache.New(ttl, 10*time.Minute),
	}
}

func (p *CachedProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	key := p.cacheKey(text)
	if x, found := p.cache.Get(key); found {
		return x.([]float32), nil
	}

	vec, err := p.upstream.Generate(ctx, text)
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, vec, cache.DefaultExpiration)
	return vec, nil
}

func (p *CachedProvider) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(p.model + ":" + text))
	return hex.EncodeToString(sum[:])
}
