package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorsIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("loading listing: %w", NotFound("listing not found"))

	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped error to match ErrNotFound")
	}
	if errors.Is(err, ErrAuthorization) {
		t.Fatalf("not_found must not match authorization")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[*Error]int{
		Authentication("x"): http.StatusUnauthorized,
		Authorization("x"):  http.StatusForbidden,
		NotFound("x"):       http.StatusNotFound,
		Validation("x"):     http.StatusBadRequest,
		Conflict("x"):       http.StatusConflict,
		Internal("x", nil):  http.StatusInternalServerError,
	}
	for e, want := range cases {
		if got := e.HTTPStatus(); got != want {
			t.Errorf("%s: expected %d, got %d", e.Kind, want, got)
		}
	}
}

func TestFromWrapsForeignErrors(t *testing.T) {
	base := errors.New("connection reset")
	e := From(base)
	if e.Kind != KindInternal {
		t.Fatalf("expected internal kind, got %s", e.Kind)
	}
	if !errors.Is(e, base) {
		t.Fatalf("expected original error to be reachable through Unwrap")
	}
	if KindOf(nil) != "" {
		t.Fatalf("nil error should have no kind")
	}
}
