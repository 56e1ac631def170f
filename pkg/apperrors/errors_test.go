package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFixedStatusCodes(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{BadRequest("nope"), 400},
		{NotAuthorized(), 401},
		{NotFound(), 404},
		{New(CodeInternal, "boom"), 500},
		{New(CodeTimeout, "too slow"), 504},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err.Code); got != tc.status {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tc.err.Code, got, tc.status)
		}
	}
}

func TestSerializeContent(t *testing.T) {
	if got := NotAuthorized().Serialize(); len(got) != 1 || got[0].Message != "Not authorized" {
		t.Fatalf("NotAuthorized serialize = %+v", got)
	}
	if got := NotFound().Serialize(); len(got) != 1 || got[0].Message != "Not Found" {
		t.Fatalf("NotFound serialize = %+v", got)
	}
	if got := BadRequest("Your account has been suspended").Serialize(); len(got) != 1 || got[0].Message != "Your account has been suspended" {
		t.Fatalf("BadRequest serialize = %+v", got)
	}
}

func TestIsMatchesCodeThroughWrapping(t *testing.T) {
	base := errors.New("pq: connection refused")
	wrapped := Wrap(base, CodeInternal, "failed to load course")

	if !Is(wrapped, CodeInternal) {
		t.Fatal("expected Is to match CodeInternal")
	}
	if Is(wrapped, CodeNotFound) {
		t.Fatal("did not expect CodeNotFound match")
	}
	if !errors.Is(wrapped, base) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}

	// A further fmt wrap must still be recognized at the boundary.
	outer := fmt.Errorf("handler: %w", wrapped)
	if !Is(outer, CodeInternal) {
		t.Fatal("expected Is to see through fmt wrapping")
	}
}

func TestUnknownCodeFallsBackTo500(t *testing.T) {
	if got := HTTPStatus(Code("mystery")); got != 500 {
		t.Fatalf("HTTPStatus(mystery) = %d, want 500", got)
	}
}
