package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	pkgerrors "github.com/verdantops/canopy-backend/pkg/errors"
	"github.com/verdantops/canopy-backend/pkg/types"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	f.data[key] = str
	return true, nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func requestWithPattern(method, url, pattern string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, url, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		pattern string
		ok      bool
	}{
		{"create batch", http.MethodPost, "/api/v1/batches", true},
		{"record harvest", http.MethodPost, "/api/v1/batches/123/harvest", true},
		{"create cost", http.MethodPost, "/api/v1/costs", true},
		{"list batches", http.MethodGet, "/api/v1/batches", false},
		{"create room", http.MethodPost, "/api/v1/rooms", false},
	}

	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.pattern)
		if ok != tt.ok {
			t.Fatalf("%s: expected ok=%v got %v", tt.name, tt.ok, ok)
		}
		if ok && ttl != defaultIdempotencyTTL {
			t.Fatalf("%s: expected ttl=%v got %v", tt.name, defaultIdempotencyTTL, ttl)
		}
	}
}

func TestIdempotencyMiddlewareRequiresHeader(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusCreated)
	})

	req := requestWithPattern(http.MethodPost, "/api/v1/batches", "/api/v1/batches", strings.NewReader(`{"foo":"bar"}`))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if handlerCalled {
		t.Fatalf("handler should not run without idempotency key")
	}
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	callCount := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callCount++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"code":"R1-2026-01"}}`))
	})

	body := `{"room_id":"abc"}`
	first := requestWithPattern(http.MethodPost, "/api/v1/batches", "/api/v1/batches", strings.NewReader(body))
	first.Header.Set("Idempotency-Key", "key-1")
	firstResp := httptest.NewRecorder()
	mw(handler).ServeHTTP(firstResp, first)

	if firstResp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", firstResp.Code)
	}

	second := requestWithPattern(http.MethodPost, "/api/v1/batches", "/api/v1/batches", strings.NewReader(body))
	second.Header.Set("Idempotency-Key", "key-1")
	secondResp := httptest.NewRecorder()
	mw(handler).ServeHTTP(secondResp, second)

	if callCount != 1 {
		t.Fatalf("handler must run once, ran %d times", callCount)
	}
	if secondResp.Code != http.StatusCreated {
		t.Fatalf("replay must return stored status, got %d", secondResp.Code)
	}
	if secondResp.Body.String() != firstResp.Body.String() {
		t.Fatal("replay must return stored body")
	}
}

func TestIdempotencyMiddlewareRejectsReusedKeyWithNewBody(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	first := requestWithPattern(http.MethodPost, "/api/v1/costs", "/api/v1/costs", strings.NewReader(`{"amount":"10"}`))
	first.Header.Set("Idempotency-Key", "key-2")
	mw(handler).ServeHTTP(httptest.NewRecorder(), first)

	second := requestWithPattern(http.MethodPost, "/api/v1/costs", "/api/v1/costs", strings.NewReader(`{"amount":"999"}`))
	second.Header.Set("Idempotency-Key", "key-2")
	secondResp := httptest.NewRecorder()
	mw(handler).ServeHTTP(secondResp, second)

	if secondResp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", secondResp.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(secondResp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeIdempotency) {
		t.Fatalf("expected idempotency code, got %q", envelope.Error.Code)
	}
}

func TestIdempotencyMiddlewareSkipsUnlistedRoutes(t *testing.T) {
	store := newFakeStore()
	mw := Idempotency(store, nil)
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})

	req := requestWithPattern(http.MethodPost, "/api/v1/rooms", "/api/v1/rooms", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	mw(handler).ServeHTTP(resp, req)

	if !handlerCalled {
		t.Fatal("handler must run on unlisted routes without a key")
	}
	if len(store.data) != 0 {
		t.Fatal("no record should be stored for unlisted routes")
	}
}
