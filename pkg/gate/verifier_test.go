package gate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(t *testing.T) (*Verifier, *Issuer, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewVerifier(rdb, 10, 100, 60*time.Second), NewIssuer(rdb), srv
}

func TestGenerateKeyFormat(t *testing.T) {
	key := GenerateKey()

	assert.True(t, strings.HasPrefix(key, "cg_live_"))
	assert.NotEqual(t, key, GenerateKey())
}

func TestVerifyMissingKey(t *testing.T) {
	verifier, _, _ := newTestGate(t)

	_, err := verifier.Verify(context.Background(), "")

	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestVerifyUnknownKey(t *testing.T) {
	verifier, _, _ := newTestGate(t)

	_, err := verifier.Verify(context.Background(), "cg_live_who-is-this")

	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestVerifyFailsClosedWhenStoreDown(t *testing.T) {
	verifier, issuer, srv := newTestGate(t)
	ctx := context.Background()

	key, err := issuer.Issue(ctx, TierFree)
	require.NoError(t, err)

	srv.Close()

	_, err = verifier.Verify(ctx, key)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestVerifyGrantsIssuedKey(t *testing.T) {
	verifier, issuer, _ := newTestGate(t)
	ctx := context.Background()

	key, err := issuer.Issue(ctx, TierPro)
	require.NoError(t, err)

	grant, err := verifier.Verify(ctx, key)

	require.NoError(t, err)
	assert.Equal(t, TierPro, grant.Tier)
	assert.Equal(t, 100, grant.Limit)
}

func TestVerifyDefaultsUnknownTierToFree(t *testing.T) {
	verifier, _, srv := newTestGate(t)
	ctx := context.Background()

	hashed := HashKey("cg_live_legacy")
	srv.HSet("apikey:"+hashed, "tier", "enterprise")

	grant, err := verifier.Verify(ctx, "cg_live_legacy")

	require.NoError(t, err)
	assert.Equal(t, 10, grant.Limit)
}

func TestFreeTierRejectsEleventhRequest(t *testing.T) {
	verifier, issuer, _ := newTestGate(t)
	ctx := context.Background()

	key, err := issuer.Issue(ctx, TierFree)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := verifier.Verify(ctx, key)
		require.NoError(t, err, "request %d should pass", i+1)
	}

	_, err = verifier.Verify(ctx, key)

	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Greater(t, rl.RetryAfter, 0)
	assert.LessOrEqual(t, rl.RetryAfter, 60)
}

func TestRetryAfterStaysPositiveInLastSecond(t *testing.T) {
	verifier, issuer, srv := newTestGate(t)
	ctx := context.Background()

	key, err := issuer.Issue(ctx, TierFree)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := verifier.Verify(ctx, key)
		require.NoError(t, err)
	}
	srv.SetTTL("usage:"+HashKey(key), 500*time.Millisecond)

	_, err = verifier.Verify(ctx, key)

	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.GreaterOrEqual(t, rl.RetryAfter, 1)
}

func TestWindowResetRestoresQuota(t *testing.T) {
	verifier, issuer, srv := newTestGate(t)
	ctx := context.Background()

	key, err := issuer.Issue(ctx, TierFree)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := verifier.Verify(ctx, key)
		require.NoError(t, err)
	}
	_, err = verifier.Verify(ctx, key)
	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)

	srv.FastForward(61 * time.Second)

	grant, err := verifier.Verify(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, TierFree, grant.Tier)
}

func TestProTierAllowsBeyondFreeLimit(t *testing.T) {
	verifier, issuer, _ := newTestGate(t)
	ctx := context.Background()

	key, err := issuer.Issue(ctx, TierPro)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_, err := verifier.Verify(ctx, key)
		require.NoError(t, err)
	}

	_, err = verifier.Verify(ctx, key)
	var rl *RateLimitError
	assert.ErrorAs(t, err, &rl)
}

func TestKeysAreMeteredIndependently(t *testing.T) {
	verifier, issuer, _ := newTestGate(t)
	ctx := context.Background()

	first, err := issuer.Issue(ctx, TierFree)
	require.NoError(t, err)
	second, err := issuer.Issue(ctx, TierFree)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := verifier.Verify(ctx, first)
		require.NoError(t, err)
	}
	var rl *RateLimitError
	_, err = verifier.Verify(ctx, first)
	require.ErrorAs(t, err, &rl)

	_, err = verifier.Verify(ctx, second)
	assert.NoError(t, err)
}

func TestConcurrentVerifyCountsEveryRequest(t *testing.T) {
	verifier, issuer, srv := newTestGate(t)
	ctx := context.Background()

	key, err := issuer.Issue(ctx, TierPro)
	require.NoError(t, err)

	const n = 40
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = verifier.Verify(ctx, key)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "request %d", i)
	}
	count, err := srv.Get("usage:" + HashKey(key))
	require.NoError(t, err)
	assert.Equal(t, "40", count)
}

func TestRateLimitErrorMessage(t *testing.T) {
	err := &RateLimitError{RetryAfter: 42}

	assert.Contains(t, err.Error(), "42")
	assert.False(t, errors.Is(err, ErrInvalidKey))
}

func TestIssueStoresOnlyHash(t *testing.T) {
	_, issuer, srv := newTestGate(t)
	ctx := context.Background()

	key, err := issuer.Issue(ctx, TierFree)
	require.NoError(t, err)

	assert.False(t, srv.Exists("apikey:"+key))
	assert.True(t, srv.Exists("apikey:"+HashKey(key)))
	assert.Equal(t, TierFree, srv.HGet("apikey:"+HashKey(key), "tier"))
}
