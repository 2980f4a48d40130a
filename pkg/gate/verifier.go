package gate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	TierFree = "free"
	TierPro  = "pro"
)

var (
	ErrMissingKey  = errors.New("gate: missing api key")
	ErrInvalidKey  = errors.New("gate: invalid api key")
	ErrUnavailable = errors.New("gate: credential store unavailable")
)

// RateLimitError carries the remaining window so callers can emit Retry-After.
type RateLimitError struct {
	RetryAfter int // seconds
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("gate: rate limit exceeded, retry in %ds", e.RetryAfter)
}

// Grant is the terminal authorized outcome of a verification.
type Grant struct {
	Tier  string
	Limit int
}

// Verifier validates presented credentials and meters them against a fixed
// request window. It keeps no state of its own; the usage counter in redis is
// the only thing shared between requests.
type Verifier struct {
	rdb    *redis.Client
	limits map[string]int
	window time.Duration
}

func NewVerifier(rdb *redis.Client, freeLimit, proLimit int, window time.Duration) *Verifier {
	if freeLimit <= 0 {
		freeLimit = 10
	}
	if proLimit <= 0 {
		proLimit = 100
	}
	if window <= 0 {
		window = 60 * time.Second
	}
	return &Verifier{
		rdb: rdb,
		limits: map[string]int{
			TierFree: freeLimit,
			TierPro:  proLimit,
		},
		window: window,
	}
}

// Verify runs the full gate: credential presence, store reachability (fails
// closed), credential existence, then the windowed quota. The INCR is atomic;
// the expiry set on the first increment is a tolerated check-then-act since
// setting it twice in a racing window is harmless.
func (v *Verifier) Verify(ctx context.Context, rawKey string) (*Grant, error) {
	if rawKey == "" {
		return nil, ErrMissingKey
	}

	hashed := HashKey(rawKey)
	record, err := v.rdb.HGetAll(ctx, credentialKey(hashed)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(record) == 0 {
		return nil, ErrInvalidKey
	}

	tier := record["tier"]
	limit, ok := v.limits[tier]
	if !ok {
		limit = v.limits[TierFree]
	}

	usageKey := "usage:" + hashed
	count, err := v.rdb.Incr(ctx, usageKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// First request of a fresh window starts its timer. The counter resets
	// entirely on expiry, making this a fixed window rather than sliding.
	if count == 1 {
		if err := v.rdb.Expire(ctx, usageKey, v.window).Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if count > int64(limit) {
		ttl, err := v.rdb.TTL(ctx, usageKey).Result()
		if err != nil || ttl <= 0 {
			ttl = v.window
		}
		// Round up so a rejection in the window's last second still tells the
		// client to wait.
		return nil, &RateLimitError{RetryAfter: int(math.Ceil(ttl.Seconds()))}
	}

	return &Grant{Tier: tier, Limit: limit}, nil
}

// Limit reports the configured ceiling for a tier, defaulting to free.
func (v *Verifier) Limit(tier string) int {
	if limit, ok := v.limits[tier]; ok {
		return limit
	}
	return v.limits[TierFree]
}

// Window returns the rate-limit window length.
func (v *Verifier) Window() time.Duration {
	return v.window
}
