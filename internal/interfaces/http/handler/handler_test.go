package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
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
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeGenerator struct {
	milestones []domain.Milestone
	err        error
	calls      int
	timeout    time.Duration
	req        domain.GenerationRequest
}

func (f *fakeGenerator) GenerateWithTimeout(_ context.Context, timeout time.Duration, req domain.GenerationRequest) ([]domain.Milestone, error) {
	f.calls++
	f.timeout = timeout
	f.req = req
	return f.milestones, f.err
}

func doJSON(t *testing.T, h gin.HandlerFunc, method, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	engine := gin.New()
	engine.Handle(method, "/", h)

	req := httptest.NewRequest(method, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w, out
}

func TestGenerateMilestones_Success(t *testing.T) {
	gen := &fakeGenerator{milestones: []domain.Milestone{
		{Name: "Concept", Amount: 300},
		{Name: "Design", Amount: 400},
		{Name: "Delivery", Amount: 300},
	}}
	h := NewMilestoneHandler(gen, 45*time.Second)

	w, body := doJSON(t, h.GenerateMilestones, http.MethodPost, `{"projectDescription":"Design a logo","totalAmount":1000}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"milestones":[{"name":"Concept","amount":300},{"name":"Design","amount":400},{"name":"Delivery","amount":300}]}`, w.Body.String())
	assert.NotNil(t, body["milestones"])
	assert.Equal(t, 45*time.Second, gen.timeout)
	assert.Equal(t, domain.GenerationRequest{ProjectDescription: "Design a logo", TotalAmount: 1000}, gen.req)
}

func TestGenerateMilestones_MissingFields(t *testing.T) {
	for _, payload := range []string{
		`{"totalAmount":1000}`,
		`{"projectDescription":"Design a logo"}`,
		`{"projectDescription":"  ","totalAmount":1000}`,
		`{"projectDescription":"Design a logo","totalAmount":"1000"}`,
		`not json`,
		``,
	} {
		gen := &fakeGenerator{}
		w, body := doJSON(t, NewMilestoneHandler(gen, 0).GenerateMilestones, http.MethodPost, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code, payload)
		assert.NotEmpty(t, body["error"], payload)
		assert.Zero(t, gen.calls, payload)
	}
}

func TestGenerateMilestones_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{
			name:   "invalid input",
			err:    domain.NewInvalidInput("totalAmount must be positive"),
			status: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "totalAmount must be positive", body["error"])
			},
		},
		{
			name:   "malformed",
			err:    domain.NewMalformedResponse("Sure! Here you go", errors.New("invalid character")),
			status: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "MalformedResponse", body["kind"])
				assert.Equal(t, "Sure! Here you go", body["raw"])
			},
		},
		{
			name:   "shape",
			err:    domain.NewUnexpectedShape("[]", 2, "invalid milestone at index 2: missing name"),
			status: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "UnexpectedShape", body["kind"])
				assert.EqualValues(t, 2, body["index"])
				assert.NotContains(t, body, "raw")
			},
		},
		{
			name:   "shape without index",
			err:    domain.NewUnexpectedShape("{}", domain.NoIndex, "model response is not an array"),
			status: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.NotContains(t, body, "index")
			},
		},
		{
			name:   "sum mismatch",
			err:    domain.NewSumMismatch(1005, 1000),
			status: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "SumMismatch", body["kind"])
				assert.EqualValues(t, 1005, body["sum"])
				assert.EqualValues(t, 1000, body["expected"])
			},
		},
		{
			name:   "upstream",
			err:    domain.NewUpstreamFailure(errors.New("rate limited by provider")),
			status: http.StatusBadGateway,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "failed to generate milestones", body["error"])
				assert.Equal(t, "rate limited by provider", body["details"])
			},
		},
		{
			name:   "timeout",
			err:    domain.NewTimeout(context.DeadlineExceeded),
			status: http.StatusGatewayTimeout,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Timeout", body["kind"])
			},
		},
		{
			name:   "unclassified",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Failed to generate milestones", body["error"])
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewMilestoneHandler(&fakeGenerator{err: tc.err}, 0)
			w, body := doJSON(t, h.GenerateMilestones, http.MethodPost, `{"projectDescription":"Design a logo","totalAmount":1000}`)
			assert.Equal(t, tc.status, w.Code)
			tc.check(t, body)
		})
	}
}

type fakeChecker struct{ err error }

func (f fakeChecker) HealthCheck(context.Context) error { return f.err }

func TestHealthEndpoints(t *testing.T) {
	h := NewHealthHandler("v1.2.3", nil)

	w, body := doJSON(t, h.Health, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "v1.2.3", body["version"])

	w, body = doJSON(t, h.Ready, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "disabled", body["checks"].(map[string]any)["redis"].(map[string]any)["status"])

	w, _ = doJSON(t, h.Live, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReady_RedisDown(t *testing.T) {
	h := &HealthHandler{redis: fakeChecker{err: errors.New("dial tcp: connection refused")}}

	w, body := doJSON(t, h.Ready, http.MethodGet, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "not_ready", body["status"])

	h.redis = fakeChecker{}
	w, _ = doJSON(t, h.Ready, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func testConfig() *config.Config {
	return &config.Config{
		Contract: config.ContractConfig{
			Address:       "0xe22EAfa82934Be3049B5AD3B2514A123bb7F74F3",
			Network:       "Base Sepolia",
			ChainID:       84532,
			USDCAddress:   "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
			USDCDecimals:  6,
			FeePercentage: 2,
		},
		MiniApp: config.MiniAppConfig{
			Name:    "Freelance Invoice AI",
			HomeURL: "https://invoice.example.com/",
			IconURL: "https://invoice.example.com/icon.png",
			Tags:    []string{"base", "freelance"},
		},
	}
}

func TestContractInfo(t *testing.T) {
	h := NewContractHandler(testConfig())
	w, _ := doJSON(t, h.ContractInfo, http.MethodGet, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"contractAddress": "0xe22EAfa82934Be3049B5AD3B2514A123bb7F74F3",
		"network": "Base Sepolia",
		"chainId": 84532,
		"usdcAddress": "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
		"feePercentage": 2
	}`, w.Body.String())
}

func TestManifest(t *testing.T) {
	h := NewContractHandler(testConfig())
	w, body := doJSON(t, h.Manifest, http.MethodGet, "")
	require.Equal(t, http.StatusOK, w.Code)

	frame := body["frame"].(map[string]any)
	assert.Equal(t, "1", frame["version"])
	assert.Equal(t, "Freelance Invoice AI", frame["name"])
	assert.Equal(t, "https://invoice.example.com/api/notification", frame["webhookUrl"])
	assert.Equal(t, "Freelance Invoice AI", frame["ogTitle"])
}

func TestInvoiceDraft(t *testing.T) {
	cfg := testConfig()
	h := NewInvoiceHandler(invoice.NewAdapter(cfg.Contract, domain.DefaultSumTolerance, nil))

	payload := `{
		"freelancerAddress": "0x1111111111111111111111111111111111111111",
		"totalAmount": 1000,
		"projectDescription": "Design a logo",
		"milestones": [{"name":"A","amount":300},{"name":"B","amount":700}]
	}`
	w, body := doJSON(t, h.Draft, http.MethodPost, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "createInvoice", body["functionName"])
	args := body["args"].(map[string]any)
	assert.Equal(t, "1000000000", args["_totalAmount"])
	assert.Equal(t, []any{"300000000", "700000000"}, args["_milestoneAmounts"])

	bad := `{"freelancerAddress":"alice.eth","totalAmount":1000,"projectDescription":"x","milestones":[{"name":"A","amount":1000}]}`
	w, body = doJSON(t, h.Draft, http.MethodPost, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "freelancerAddress")
	assert.Equal(t, "4005", body["code"])
}

func TestTriggerAgent(t *testing.T) {
	h := NewAgentHandler()
	w, _ := doJSON(t, h.TriggerAgent, http.MethodPost, `{"action":"complete","invoiceId":3,"milestoneIndex":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"AgentKit integration coming soon","action":"complete","invoiceId":3,"milestoneIndex":1}`, w.Body.String())

	w, _ = doJSON(t, h.TriggerAgent, http.MethodPost, `{"invoiceId":"three"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type memoryStore struct {
	saved []*notification.Record
	err   error
}

func (s *memoryStore) Save(_ context.Context, rec *notification.Record) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, rec)
	return nil
}

func (s *memoryStore) Name() string { return "memory" }

func TestNotification(t *testing.T) {
	store := &memoryStore{}
	h := NewNotificationHandler(notification.NewService(store))

	w, body := doJSON(t, h.Receive, http.MethodPost, `{"event":"frame_added","fid":42}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	require.Len(t, store.saved, 1)
	assert.Equal(t, body["id"], store.saved[0].ID)
	assert.JSONEq(t, `{"event":"frame_added","fid":42}`, string(store.saved[0].Payload))

	w, body = doJSON(t, h.Receive, http.MethodPost, `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])

	store.err = errors.New("redis down")
	w, body = doJSON(t, h.Receive, http.MethodPost, `{"event":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to process notification", body["error"])
}

func TestGenerateMilestones_OverflowingSumKeepsErrorBody(t *testing.T) {
	gen := appmilestone.NewGenerator(appmilestone.CompleterFunc(func(context.Context, domain.GenerationRequest) (string, error) {
		return `[{"name":"A","amount":1.7e308},{"name":"B","amount":1.7e308}]`, nil
	}))
	h := NewMilestoneHandler(gen, time.Second)

	w, body := doJSON(t, h.GenerateMilestones, http.MethodPost, `{"projectDescription":"Design a logo","totalAmount":1000}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotEmpty(t, w.Body.String())
	assert.Equal(t, string(domain.KindUnexpectedShape), body["kind"])
	assert.NotEmpty(t, body["error"])
	assert.EqualValues(t, 1, body["index"])
	assert.NotContains(t, body, "sum")
}
