package serverutils

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-gateway-be/pkg/gate"
)

func newGatedApp(t *testing.T) (*fiber.App, *gate.Issuer) {
	t.Helper()

	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	verifier := gate.NewVerifier(rdb, 2, 100, 60*time.Second)

	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/protected", NewApiKeyMiddleware(verifier), func(ctx *fiber.Ctx) error {
		grant := ctx.Locals("grant").(*gate.Grant)
		return ctx.JSON(fiber.Map{"tier": grant.Tier})
	})

	return app, gate.NewIssuer(rdb)
}

func TestMissingKeyReturns401(t *testing.T) {
	app, _ := newGatedApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 401, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "missing_credential", body["code"])
}

func TestInvalidKeyReturns401(t *testing.T) {
	app, _ := newGatedApp(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(ApiKeyHeader, "cg_live_forged")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 401, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "invalid_credential", body["code"])
}

func TestValidKeyPassesWithGrant(t *testing.T) {
	app, issuer := newGatedApp(t)

	key, err := issuer.Issue(context.Background(), gate.TierPro)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(ApiKeyHeader, key)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, gate.TierPro, body["tier"])
}

func TestRateLimitedReturns429WithRetryAfter(t *testing.T) {
	app, issuer := newGatedApp(t)

	key, err := issuer.Issue(context.Background(), gate.TierFree)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set(ApiKeyHeader, key)
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, 200, resp.StatusCode)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(ApiKeyHeader, key)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 429, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "rate_limited", body["code"])
	assert.Greater(t, body["retry_after"].(float64), float64(0))
}
