package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidInput, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeUpstream, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
		{Code("BOGUS"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.code, tt.want, got)
		}
	}
}

func TestWrapPreservesCodeAndChain(t *testing.T) {
	base := New(CodeNotFound, "task not found")
	wrapped := Wrap(fmt.Errorf("lookup: %w", base), CodeInternal, "handling request")

	if wrapped.Code() != CodeNotFound {
		t.Errorf("wrap must keep the original code, got %s", wrapped.Code())
	}
	if !stderrors.Is(wrapped, base) {
		t.Error("wrapped error must keep the chain")
	}
	if Wrap(nil, CodeInternal, "x") != nil {
		t.Error("wrapping nil must return nil")
	}
}

func TestCodeOfUncodedError(t *testing.T) {
	if got := CodeOf(stderrors.New("plain")); got != CodeInternal {
		t.Errorf("expected CodeInternal for uncoded error, got %s", got)
	}
	if HTTPStatus(stderrors.New("plain")) != http.StatusInternalServerError {
		t.Error("uncoded errors must surface as 500")
	}
}

func TestMarshalJSONHidesCause(t *testing.T) {
	err := Wrap(stderrors.New("disk exploded at /var/db"), CodeUpstream, "storage unavailable").
		WithDetail("resource", "tasks")

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("marshal failed: %v", jerr)
	}

	var decoded struct {
		Code    Code              `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("unmarshal failed: %v", jerr)
	}

	if decoded.Code != CodeUpstream {
		t.Errorf("expected UPSTREAM, got %s", decoded.Code)
	}
	if decoded.Message != "storage unavailable" {
		t.Errorf("unexpected message %q", decoded.Message)
	}
	if decoded.Details["resource"] != "tasks" {
		t.Errorf("missing detail, got %v", decoded.Details)
	}
	for _, forbidden := range []string{"disk exploded", "/var/db"} {
		if string(data) != "" && containsSubstring(string(data), forbidden) {
			t.Errorf("cause leaked to the wire: %s", data)
		}
	}
}

func containsSubstring(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
