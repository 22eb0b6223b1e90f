package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"adslot-auction/internal/broadcast"
	"adslot-auction/internal/cache"
	"adslot-auction/internal/collaborators"
	"adslot-auction/internal/engine"
	"adslot-auction/internal/server"
	"adslot-auction/internal/store"

	"github.com/gin-gonic/gin"
)

// testStack bundles the wired components so tests can reach behind the API
// when needed (e.g. subscribing to the hub).
type testStack struct {
	Router *gin.Engine
	Store  *store.MemoryStore
	Hub    *broadcast.Hub
	Engine *engine.AuctionEngine
}

// SetupTestStack wires the full service with in-memory components for
// integration testing.
func SetupTestStack() testStack {
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	c := cache.NewMemoryCache(time.Minute, time.Second)
	hub := broadcast.NewHub(16)

	e := engine.NewAuctionEngine(
		st, c, hub,
		collaborators.StaticRecommender{RatePerSecond: 2},
		collaborators.NoRiskChecker{},
		collaborators.LoggingLedger{},
		engine.RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond},
		engine.Config{FraudThreshold: 0.8, FraudFailOpen: true, DefaultBasePrice: 50},
	)

	return testStack{
		Router: server.SetupRouter(e, hub),
		Store:  st,
		Hub:    hub,
		Engine: e,
	}
}

// ExecuteRequestAndParse executes an HTTP request on the given router and
// parses the JSON envelope.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// data extracts the envelope's data object, failing the test when absent.
func data(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()
	d, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("response has no data object: %v", resp)
	}
	return d
}
