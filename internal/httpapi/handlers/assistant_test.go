package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/assistant"
	"github.com/pawsquare/pawsquare/internal/auth"
	"github.com/pawsquare/pawsquare/internal/config"
)

const testSecret = "test-secret"

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&assistant.Usage{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// newAssistantRouter wires only the function endpoint against an in-memory DB
// and a stubbed upstream gateway.
func newAssistantRouter(t *testing.T, upstreamURL string) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := openTestDB(t)
	cfg := config.Config{
		JWTSecret:            testSecret,
		GatewayBaseURL:       upstreamURL,
		GatewayAPIKey:        "server-key",
		GatewayModel:         "test-model",
		AssistantHourlyLimit: 20,
		AllowedOrigins:       []string{"https://pawsquare.app", "http://localhost:5173"},
	}
	h := &Handler{
		DB:        db,
		Cfg:       cfg,
		Gateway:   assistant.NewGateway(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.GatewayModel),
		UsageRepo: assistant.NewUsageRepo(db),
		CORS:      assistant.CORSPolicy{AllowedOrigins: cfg.AllowedOrigins},
	}

	r := gin.New()
	r.OPTIONS("/functions/v1/pet-care-assistant", h.AssistantPreflight)
	r.POST("/functions/v1/pet-care-assistant", h.AssistantChat)
	return r, h
}

func stubUpstream(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected upstream path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer server-key" {
			t.Errorf("upstream auth header = %q", r.Header.Get("Authorization"))
		}
		if status == http.StatusOK {
			w.Header().Set("Content-Type", "text/event-stream")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func signTestToken(t *testing.T, userID uint64) string {
	t.Helper()
	tok, err := auth.SignJWT(userID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return tok
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response body not {\"error\"}: %q", w.Body.String())
	}
	return out.Error
}

func TestAssistantPreflight(t *testing.T) {
	r, _ := newAssistantRouter(t, "http://unused.invalid")

	req := httptest.NewRequest(http.MethodOptions, "/functions/v1/pet-care-assistant", nil)
	req.Header.Set("Origin", "https://foo.lovable.app")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://foo.lovable.app" {
		t.Fatalf("allow-origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Fatalf("allow-methods = %q", got)
	}
}

func TestAssistantPreflight_UnknownOriginFallsBack(t *testing.T) {
	r, _ := newAssistantRouter(t, "http://unused.invalid")

	req := httptest.NewRequest(http.MethodOptions, "/functions/v1/pet-care-assistant", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://pawsquare.app" {
		t.Fatalf("allow-origin = %q, want first static origin", got)
	}
}

func TestAssistantChat_NoAuth(t *testing.T) {
	r, _ := newAssistantRouter(t, "http://unused.invalid")

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/pet-care-assistant",
		strings.NewReader(`{"messages":[{"role":"user","content":"Hi"}]}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if msg := errorBody(t, w); !strings.Contains(msg, "Authentication required") {
		t.Fatalf("error = %q", msg)
	}
}

func TestAssistantChat_BadToken(t *testing.T) {
	r, _ := newAssistantRouter(t, "http://unused.invalid")

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/pet-care-assistant",
		strings.NewReader(`{"messages":[{"role":"user","content":"Hi"}]}`))
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAssistantChat_SuccessStreamAndUsage(t *testing.T) {
	stream := "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\ndata: [DONE]\n\n"
	up := stubUpstream(t, http.StatusOK, stream)
	defer up.Close()

	r, h := newAssistantRouter(t, up.URL)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/pet-care-assistant",
		strings.NewReader(`{"messages":[{"role":"user","content":"Hi"}]}`))
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 42))
	req.Header.Set("Origin", "https://pawsquare.app")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type = %q", ct)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://pawsquare.app" {
		t.Fatalf("allow-origin = %q", got)
	}
	// Byte-level passthrough: the upstream body arrives unmodified.
	if w.Body.String() != stream {
		t.Fatalf("body = %q, want untouched upstream stream", w.Body.String())
	}

	var cnt int64
	if err := h.DB.Model(&assistant.Usage{}).Where("user_id = ?", 42).Count(&cnt).Error; err != nil {
		t.Fatalf("count usage: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("usage rows = %d, want 1", cnt)
	}
}

func TestAssistantChat_RateLimitBoundary(t *testing.T) {
	stream := "data: [DONE]\n"
	up := stubUpstream(t, http.StatusOK, stream)
	defer up.Close()

	r, h := newAssistantRouter(t, up.URL)

	// 19 prior requests this hour: the next one goes through.
	for i := 0; i < 19; i++ {
		if err := h.DB.Create(&assistant.Usage{UserID: 7, CreatedAt: time.Now()}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/functions/v1/pet-care-assistant",
			strings.NewReader(`{"messages":[{"role":"user","content":"Hi"}]}`))
		req.Header.Set("Authorization", "Bearer "+signTestToken(t, 7))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := send(); w.Code != http.StatusOK {
		t.Fatalf("20th request status = %d body = %s", w.Code, w.Body.String())
	}

	// Now at 20 inside the window: the 21st is refused.
	w := send()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("21st request status = %d", w.Code)
	}
	if msg := errorBody(t, w); !strings.Contains(msg, "20 messages") {
		t.Fatalf("error = %q, want the hourly cap named", msg)
	}
}

func TestAssistantChat_RateLimitMessageNamesConfiguredCap(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db := openTestDB(t)
	cfg := config.Config{
		JWTSecret:            testSecret,
		GatewayBaseURL:       "http://unused.invalid",
		GatewayAPIKey:        "server-key",
		AssistantHourlyLimit: 5,
		AllowedOrigins:       []string{"https://pawsquare.app"},
	}
	h := &Handler{
		DB:        db,
		Cfg:       cfg,
		Gateway:   assistant.NewGateway(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.GatewayModel),
		UsageRepo: assistant.NewUsageRepo(db),
		CORS:      assistant.CORSPolicy{AllowedOrigins: cfg.AllowedOrigins},
	}
	r := gin.New()
	r.POST("/functions/v1/pet-care-assistant", h.AssistantChat)

	for i := 0; i < 5; i++ {
		if err := db.Create(&assistant.Usage{UserID: 15, CreatedAt: time.Now()}).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/pet-care-assistant",
		strings.NewReader(`{"messages":[{"role":"user","content":"Hi"}]}`))
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 15))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	if msg := errorBody(t, w); !strings.Contains(msg, "5 messages") {
		t.Fatalf("error = %q, want the configured cap named", msg)
	}
}

func TestAssistantChat_UpstreamErrorTranslation(t *testing.T) {
	cases := []struct {
		name         string
		upstream     int
		wantStatus   int
		wantContains string
	}{
		{"upstream throttled", http.StatusTooManyRequests, http.StatusTooManyRequests, "busy"},
		{"upstream billing", http.StatusPaymentRequired, http.StatusPaymentRequired, "temporarily unavailable"},
		{"upstream broken", http.StatusInternalServerError, http.StatusInternalServerError, "Something went wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			up := stubUpstream(t, tc.upstream, `{"secret":"never leaked"}`)
			defer up.Close()

			r, _ := newAssistantRouter(t, up.URL)
			req := httptest.NewRequest(http.MethodPost, "/functions/v1/pet-care-assistant",
				strings.NewReader(`{"messages":[{"role":"user","content":"Hi"}]}`))
			req.Header.Set("Authorization", "Bearer "+signTestToken(t, 9))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			if msg := errorBody(t, w); !strings.Contains(msg, tc.wantContains) {
				t.Fatalf("error = %q", msg)
			}
			if strings.Contains(w.Body.String(), "never leaked") {
				t.Fatalf("upstream body leaked: %s", w.Body.String())
			}
		})
	}
}

func TestAssistantChat_EmptyMessages(t *testing.T) {
	r, _ := newAssistantRouter(t, "http://unused.invalid")

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/pet-care-assistant",
		strings.NewReader(`{"messages":[]}`))
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 3))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}
