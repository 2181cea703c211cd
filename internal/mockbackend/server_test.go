package mockbackend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTitleFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{name: "Short query", query: "What is RAG?", expected: "What is RAG?"},
		{name: "Whitespace collapsed", query: "  What   is\nRAG? ", expected: "What is RAG?"},
		{name: "Long query truncated", query: strings.Repeat("a", 60), expected: strings.Repeat("a", 37) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := titleFromQuery(tt.query); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestInjectFault(t *testing.T) {
	srv := New()
	h := srv.Handler([]string{"*"})

	srv.InjectFault(http.MethodGet, "/chats", http.StatusServiceUnavailable)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chats", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected injected 503, got %d", rec.Code)
	}

	srv.ClearFaults()

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 after clearing faults, got %d", rec.Code)
	}

	var body struct {
		Chats []map[string]string `json:"chats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if len(body.Chats) != 0 {
		t.Errorf("Expected empty chat list, got %v", body.Chats)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := New().Handler([]string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Unexpected allow origin %q", got)
	}
}

func TestChatRequiresQuery(t *testing.T) {
	h := New().Handler(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query":"  ","chat_id":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for blank query, got %d", rec.Code)
	}
}
