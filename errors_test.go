package salin

import (
	"errors"
	"testing"
)

func TestServiceError(t *testing.T) {
	cause := errors.New("401 unauthorized")
	err := &ServiceError{Op: "openai", Message: "chat completion failed", Cause: cause}

	if err.Error() != "service error (openai): chat completion failed: 401 unauthorized" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	err2 := &ServiceError{Op: "gemini", Message: "empty response"}
	if err2.Error() != "service error (gemini): empty response" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
}

func TestDecodeError(t *testing.T) {
	err := &DecodeError{Stage: "tokenize", Cause: errors.New("empty vocabulary")}

	if err.Error() != "decode error (tokenize): empty vocabulary" {
		t.Errorf("unexpected error message: %s", err.Error())
	}

	if (&DecodeError{Stage: "decode"}).Error() != "decode error (decode)" {
		t.Error("unexpected message without cause")
	}
}

func TestCacheError(t *testing.T) {
	err := &CacheError{Message: "persist failed"}

	if err.Error() != "cache error: persist failed" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestResolutionError_Unwrap(t *testing.T) {
	cause := &ServiceError{Op: "openai", Message: "timeout"}
	err := &ResolutionError{Phrase: "bayaw", Tier: TierRemote, Cause: cause}

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatal("errors.As should find the ServiceError")
	}
	if svcErr.Op != "openai" {
		t.Errorf("unexpected op %q", svcErr.Op)
	}

	want := `resolving "bayaw" via remote: service error (openai): timeout`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
