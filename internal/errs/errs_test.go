package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

var allCodes = []Code{
	InvalidArgument,
	NotFound,
	FailedPrecondition,
	Timeout,
	Canceled,
	Unavailable,
	Internal,
}

func testCodeOf_RoundtripForTypedErrors(t *rapid.T) {
	code := rapid.SampledFrom(allCodes).Draw(t, "code")
	message := rapid.StringMatching(`[a-zA-Z0-9 _:\-]{1,80}`).Draw(t, "message")

	err := New(code, message)
	if got := CodeOf(err); got != code {
		t.Fatalf("CodeOf(New) mismatch: got=%q want=%q", got, code)
	}
	if got := MessageOf(err); got != message {
		t.Fatalf("MessageOf(New) mismatch: got=%q want=%q", got, message)
	}
}

func TestCodeOf_RoundtripForTypedErrors(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testCodeOf_RoundtripForTypedErrors)
}

func testCodeOfAndMessageOf_WrappedTypedError(t *rapid.T) {
	code := rapid.SampledFrom(allCodes).Draw(t, "code")
	message := rapid.StringMatching(`[a-zA-Z0-9 _:\-]{1,80}`).Draw(t, "message")
	cause := errors.New(rapid.StringMatching(`[a-zA-Z0-9 _:\-]{1,80}`).Draw(t, "cause"))

	err := Wrap(code, message, cause)
	wrapped := fmt.Errorf("outer: %w", err)

	if got := CodeOf(wrapped); got != code {
		t.Fatalf("CodeOf(wrapped) mismatch: got=%q want=%q", got, code)
	}
	if got := MessageOf(wrapped); got != message {
		t.Fatalf("MessageOf(wrapped) mismatch: got=%q want=%q", got, message)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("errors.Is(wrapped, cause) = false")
	}
	if !strings.Contains(err.Error(), cause.Error()) {
		t.Fatalf("Error() %q does not mention cause %q", err.Error(), cause.Error())
	}
}

func TestCodeOfAndMessageOf_WrappedTypedError(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testCodeOfAndMessageOf_WrappedTypedError)
}

func testUntypedAndNilFallbacks(t *rapid.T) {
	raw := rapid.StringMatching(`[a-zA-Z0-9 _:\-./]{1,80}`).Draw(t, "raw")
	untyped := errors.New(raw)

	if got := CodeOf(untyped); got != Internal {
		t.Fatalf("CodeOf(untyped) mismatch: got=%q want=%q", got, Internal)
	}
	if got := MessageOf(untyped); got != "internal error" {
		t.Fatalf("MessageOf(untyped) mismatch: got=%q want=%q", got, "internal error")
	}
	if got := CodeOf(nil); got != Internal {
		t.Fatalf("CodeOf(nil) mismatch: got=%q want=%q", got, Internal)
	}
	if got := MessageOf(nil); got != string(Internal) {
		t.Fatalf("MessageOf(nil) mismatch: got=%q want=%q", got, Internal)
	}
}

func TestUntypedAndNilFallbacks(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testUntypedAndNilFallbacks)
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	if err := FromContext("step", nil); err != nil {
		t.Fatalf("FromContext(nil) = %v, want nil", err)
	}
	if got := CodeOf(FromContext("step", context.DeadlineExceeded)); got != Timeout {
		t.Fatalf("deadline code = %q, want %q", got, Timeout)
	}
	if got := CodeOf(FromContext("step", context.Canceled)); got != Canceled {
		t.Fatalf("canceled code = %q, want %q", got, Canceled)
	}
	if got := CodeOf(FromContext("step", errors.New("boom"))); got != Internal {
		t.Fatalf("other code = %q, want %q", got, Internal)
	}
}

func TestHTTPStatus_Mapping(t *testing.T) {
	t.Parallel()
	cases := map[Code]int{
		InvalidArgument:     http.StatusBadRequest,
		NotFound:            http.StatusNotFound,
		FailedPrecondition:  http.StatusConflict,
		Timeout:             http.StatusGatewayTimeout,
		Unavailable:         http.StatusServiceUnavailable,
		Internal:            http.StatusInternalServerError,
		Code("unknown_code"): http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := HTTPStatus(code); got != want {
			t.Errorf("HTTPStatus mismatch: code=%q got=%d want=%d", code, got, want)
		}
	}
}

func TestExitCode_NeverZero(t *testing.T) {
	t.Parallel()
	for _, code := range append(allCodes, Code("unknown_code")) {
		if ExitCode(code) == 0 {
			t.Errorf("ExitCode(%q) = 0", code)
		}
	}
	if ExitCode(Timeout) == ExitCode(Internal) {
		t.Errorf("timeouts should be distinguishable from internal failures")
	}
}
