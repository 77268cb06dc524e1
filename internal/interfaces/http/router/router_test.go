package router

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freelance-invoice-api/internal/application/invoice"
	appmilestone "freelance-invoice-api/internal/application/milestone"
	"freelance-invoice-api/internal/application/notification"
	"freelance-invoice-api/internal/config"
	domain "freelance-invoice-api/internal/domain/milestone"
	"freelance-invoice-api/internal/interfaces/http/handler"
	"freelance-invoice-api/internal/interfaces/http/middleware"
)

const fencedLogoReply = "```json\n" + `[{"name":"Concept","amount":300},{"name":"Design","amount":400},{"name":"Delivery","amount":300}]` + "\n```"

type denyAfter struct{ n int }

func (d *denyAfter) Allow(context.Context, string, int, time.Duration) (bool, error) {
	d.n--
	return d.n >= 0, nil
}

func newTestRouter(t *testing.T, limiter middleware.RateLimiter) (*gin.Engine, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Observability.Metrics.Enabled = true
	cfg.Observability.Metrics.Path = "/metrics"
	cfg.Security.RateLimit = config.RateLimitConfig{Enabled: true, Limit: 10, Window: time.Minute}
	cfg.Contract = config.ContractConfig{Address: "0xe22EAfa82934Be3049B5AD3B2514A123bb7F74F3", ChainID: 84532, USDCDecimals: 6}

	calls := 0
	gen := appmilestone.NewGenerator(appmilestone.CompleterFunc(func(context.Context, domain.GenerationRequest) (string, error) {
		calls++
		return fencedLogoReply, nil
	}))

	handlers := &Handlers{
		Health:       handler.NewHealthHandler("test", nil),
		Milestone:    handler.NewMilestoneHandler(gen, time.Second),
		Contract:     handler.NewContractHandler(cfg),
		Invoice:      handler.NewInvoiceHandler(invoice.NewAdapter(cfg.Contract, domain.DefaultSumTolerance, nil)),
		Agent:        handler.NewAgentHandler(),
		Notification: handler.NewNotificationHandler(notification.NewService(nil)),
	}

	return New(cfg, handlers, limiter).Engine(), &calls
}

func do(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter_GenerateMilestonesEndToEnd(t *testing.T) {
	engine, calls := newTestRouter(t, nil)

	w := do(engine, http.MethodPost, "/generate-milestones", `{"projectDescription":"Design a logo","totalAmount":1000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"milestones":[{"name":"Concept","amount":300},{"name":"Design","amount":400},{"name":"Delivery","amount":300}]}`, w.Body.String())
	assert.Equal(t, 1, *calls)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(engine, http.MethodPost, "/generate-milestones", `{"projectDescription":"Design a logo","totalAmount":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, *calls)
}

func TestRouter_RateLimitAppliesToGeneration(t *testing.T) {
	engine, _ := newTestRouter(t, &denyAfter{n: 1})

	body := `{"projectDescription":"Design a logo","totalAmount":1000}`
	assert.Equal(t, http.StatusOK, do(engine, http.MethodPost, "/generate-milestones", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(engine, http.MethodPost, "/generate-milestones", body).Code)

	// 其他接口不限流
	assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, "/contract-info", "").Code)
}

func TestRouter_StaticEndpoints(t *testing.T) {
	engine, _ := newTestRouter(t, nil)

	for _, path := range []string{"/health", "/ready", "/live", "/contract-info", "/.well-known/farcaster.json", "/metrics"} {
		assert.Equal(t, http.StatusOK, do(engine, http.MethodGet, path, "").Code, path)
	}

	w := do(engine, http.MethodPost, "/api/notification", `{"event":"notifications_enabled"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(engine, http.MethodPost, "/trigger-agent", `{"action":"release","invoiceId":1,"milestoneIndex":0}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_UnknownEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t, nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nope"},
		{http.MethodGet, "/generate-milestones"},
		{http.MethodDelete, "/health"},
	} {
		w := do(engine, tc.method, tc.path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, tc.path)
		assert.JSONEq(t, `{"error":"Endpoint not found"}`, w.Body.String())
	}
}
