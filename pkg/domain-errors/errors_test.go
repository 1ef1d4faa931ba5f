package domainerrors

import (
	"errors"
	"net/http"
	"testing"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outer code", func(t *testing.T) {
		err := New(CodeBadRequest, "missing field")
		if !HasCode(err, CodeBadRequest) {
			t.Fatal("expected CodeBadRequest to match")
		}
		if HasCode(err, CodeInternal) {
			t.Fatal("did not expect CodeInternal to match")
		}
	})

	t.Run("matches wrapped code", func(t *testing.T) {
		inner := New(CodeUnavailable, "store down")
		outer := Wrap(inner, CodeInternal, "registration failed")
		if !HasCode(outer, CodeUnavailable) {
			t.Fatal("expected wrapped CodeUnavailable to match")
		}
		if !HasCode(outer, CodeInternal) {
			t.Fatal("expected outer CodeInternal to match")
		}
	})

	t.Run("uncoded error matches nothing", func(t *testing.T) {
		if HasCode(errors.New("plain"), CodeInternal) {
			t.Fatal("plain error should not carry a code")
		}
	})
}

func TestWrapPreservesChain(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap(base, CodeUnavailable, "binding store put")
	if !errors.Is(err, base) {
		t.Fatal("expected wrapped error to satisfy errors.Is on the base")
	}
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeBadRequest:  http.StatusBadRequest,
		CodeValidation:  http.StatusBadRequest,
		CodeNotFound:    http.StatusNotFound,
		CodeConflict:    http.StatusConflict,
		CodeUnavailable: http.StatusServiceUnavailable,
		CodeTimeout:     http.StatusGatewayTimeout,
		CodeInternal:    http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := ToHTTPStatus(code); got != want {
			t.Errorf("ToHTTPStatus(%s) = %d, want %d", code, got, want)
		}
	}
}
