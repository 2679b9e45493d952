package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := NotFound("account")
	if err.Error() != "[NOT_FOUND] account not found" {
		t.Fatalf("unexpected message: %s", err.Error())
	}

	wrapped := LibraryError("insert", errors.New("connection reset"))
	if wrapped.Error() != "[LIBRARY_ERROR] insert failed: connection reset" {
		t.Fatalf("unexpected message: %s", wrapped.Error())
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := RecordNotSaved("client", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
}

func TestGetThroughWrapping(t *testing.T) {
	inner := Duplicate("application")
	outer := fmt.Errorf("saving: %w", inner)

	got := Get(outer)
	if got == nil || got.Kind != KindDuplicate {
		t.Fatalf("expected duplicate kind, got %#v", got)
	}
	if !IsKind(outer, KindDuplicate) {
		t.Fatal("IsKind should match through wrapping")
	}
	if IsKind(outer, KindNotFound) {
		t.Fatal("IsKind should not match a different kind")
	}
}

func TestHTTPStatus(t *testing.T) {
	if status := HTTPStatus(CouldNotAuthenticate()); status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if status := HTTPStatus(errors.New("plain")); status != http.StatusInternalServerError {
		t.Fatalf("expected 500 fallback, got %d", status)
	}
}

func TestAuthenticationErrorCarriesNoDetail(t *testing.T) {
	err := CouldNotAuthenticate()
	if err.Err != nil {
		t.Fatal("authentication failures must not carry a cause")
	}
	if err.Error() != "[COULD_NOT_AUTHENTICATE] could not authenticate" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
