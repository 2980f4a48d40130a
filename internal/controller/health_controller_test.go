package controller

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-gateway-be/pkg/llm/mock"
)

func newHealthApp(t *testing.T, provider *mock.MockProvider) *fiber.App {
	t.Helper()
	app := fiber.New()
	NewHealthController(provider).RegisterRoutes(app)
	return app
}

func TestLiveAlwaysOk(t *testing.T) {
	app := newHealthApp(t, &mock.MockProvider{Unavailable: true})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
}

func TestReadyWhenModelLoaded(t *testing.T) {
	app := newHealthApp(t, mock.NewMockProvider())

	resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
}

func TestReadyReports503WhileLoading(t *testing.T) {
	app := newHealthApp(t, &mock.MockProvider{Unavailable: true})

	resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 503, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Model still loading", body["detail"])
}
