package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
)

func TestChainAppliesMiddlewareInDeclarationOrder(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
	}), tag("first"), nil, tag("second"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"first", "second", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRequestIDEchoesAndGenerates(t *testing.T) {
	t.Parallel()

	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), RequestID())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected generated request id")
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "given-id")
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "given-id" {
		t.Fatalf("request id = %q, want %q", got, "given-id")
	}
}

func TestRecoverPanicWritesInternalError(t *testing.T) {
	t.Parallel()

	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RecoverPanic())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("body = %q, want error envelope", rec.Body.String())
	}
}

func TestWriteJSONWrapsPayloadInDataEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]string{"id": "abc"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q, want application/json", got)
	}
	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data["id"] != "abc" {
		t.Fatalf("data = %v, want id=abc", body.Data)
	}
}

func TestWriteErrorMapsKindAndHidesInternalDetail(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(rec, apperrors.E(apperrors.KindNotFound, "tree not found"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != "not_found" || body.Error.Message != "tree not found" {
		t.Fatalf("error = %+v, want not_found/tree not found", body.Error)
	}

	rec = httptest.NewRecorder()
	WriteError(rec, apperrors.Wrap(apperrors.KindUnknown, "query failed: secret detail", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Message != "internal error" {
		t.Fatalf("message = %q, want generic internal error", body.Error.Message)
	}
}

func TestDecodeJSONClassifiesBadBodies(t *testing.T) {
	t.Parallel()

	var target struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok"}`))
	if err := DecodeJSON(req, &target); err != nil {
		t.Fatalf("decode valid body: %v", err)
	}
	if target.Name != "ok" {
		t.Fatalf("name = %q, want ok", target.Name)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{bad`))
	if err := DecodeJSON(req, &target); apperrors.KindOf(err) != apperrors.KindInvalidInput {
		t.Fatalf("expected invalid_input for malformed body, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(req, &target); apperrors.KindOf(err) != apperrors.KindInvalidInput {
		t.Fatalf("expected invalid_input for empty body, got %v", err)
	}
}
