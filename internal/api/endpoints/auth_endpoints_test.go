package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"room-chat-backend/internal/api"
	"room-chat-backend/internal/dto"
	internaljwt "room-chat-backend/internal/jwt"
	"room-chat-backend/internal/queue"
)

func setupLoginHandler(t *testing.T) http.Handler {
	t.Helper()

	queueManager := queue.NewRequestQueueManager(10, 1)
	t.Cleanup(queueManager.Shutdown)

	server := api.NewAPIServer(":0", queueManager, nil, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", server.MakeHTTPHandleFunc(NewAuthEndpoints().Login))
	return mux
}

func postLogin(t *testing.T, handler http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestLoginIssuesToken(t *testing.T) {
	handler := setupLoginHandler(t)

	rec := postLogin(t, handler, dto.LoginRequest{Username: "alice"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token in the response")
	}

	claims, err := internaljwt.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected username alice in the token, got %q", claims.Username)
	}
}

func TestLoginTrimsUsername(t *testing.T) {
	handler := setupLoginHandler(t)

	rec := postLogin(t, handler, dto.LoginRequest{Username: "  alice  "})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.LoginResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	claims, err := internaljwt.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected trimmed username, got %q", claims.Username)
	}
}

func TestLoginRejectsBadUsernames(t *testing.T) {
	handler := setupLoginHandler(t)

	for _, username := range []string{"", "a", strings.Repeat("x", 21)} {
		rec := postLogin(t, handler, dto.LoginRequest{Username: username})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("username %q: expected 400, got %d", username, rec.Code)
		}
		// The browser client displays these bodies verbatim, so they stay
		// plain text.
		if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
			t.Errorf("username %q: expected plain-text error, got %q", username, got)
		}
		if !strings.Contains(rec.Body.String(), "between 2 and 20") {
			t.Errorf("username %q: unexpected body %q", username, rec.Body.String())
		}
	}
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	handler := setupLoginHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid request") {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestLoginRejectsWrongMethod(t *testing.T) {
	handler := setupLoginHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	var apiErr api.ApiError
	if err := json.NewDecoder(rec.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Error == "" {
		t.Fatal("expected an error message")
	}
}
