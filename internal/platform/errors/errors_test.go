package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapsKnownKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidInput, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindUnavailable, http.StatusServiceUnavailable},
		{KindUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(E(tt.kind, "boom")); got != tt.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestHTTPStatusDefaultsToInternalError(t *testing.T) {
	t.Parallel()

	if got := HTTPStatus(stderrors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", got, http.StatusInternalServerError)
	}
	if got := HTTPStatus(nil); got != http.StatusOK {
		t.Fatalf("HTTPStatus(nil) = %d, want %d", got, http.StatusOK)
	}
}

func TestErrorStringFallsBackToKindWhenMessageEmpty(t *testing.T) {
	t.Parallel()

	err := Error{Kind: KindForbidden}
	if got := err.Error(); got != string(KindForbidden) {
		t.Fatalf("Error() = %q, want %q", got, string(KindForbidden))
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("disk full")
	err := Wrap(KindUnavailable, "store unavailable", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to match errors.Is")
	}
	if got := HTTPStatus(err); got != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", got, http.StatusServiceUnavailable)
	}
}

func TestKindOfSurvivesWrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("handler: %w", E(KindConflict, "duplicate grant"))
	if got := KindOf(err); got != KindConflict {
		t.Fatalf("KindOf = %q, want %q", got, KindConflict)
	}
	if got := KindOf(stderrors.New("plain")); got != KindUnknown {
		t.Fatalf("KindOf(plain) = %q, want %q", got, KindUnknown)
	}
}
