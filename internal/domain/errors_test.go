package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{"with cause", NewAppError(CodeInternal, "failed to save recipe", errors.New("disk full")), "failed to save recipe: disk full"},
		{"without cause", NotFound("recipe paella not found"), "recipe paella not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_ChainMatching(t *testing.T) {
	cause := errors.New("api key rejected")
	up := Upstream("image upload failed", cause)
	wrapped := fmt.Errorf("create recipe: %w", up)

	if !errors.Is(wrapped, cause) {
		t.Error("the cause should stay reachable through the chain")
	}
	if !errors.Is(wrapped, ErrUpstream) {
		t.Error("errors.Is should match the sentinel by code")
	}
	if errors.Is(wrapped, ErrInternal) {
		t.Error("a different code must not match")
	}
	var appErr *AppError
	if !errors.As(wrapped, &appErr) || appErr.Message != "image upload failed" {
		t.Errorf("errors.As = %+v", appErr)
	}
	if NotFound("x").Unwrap() != nil {
		t.Error("Unwrap without a cause should be nil")
	}
}

func TestCheckers(t *testing.T) {
	checkers := map[string]func(error) bool{
		"not found":      IsNotFound,
		"already exists": IsAlreadyExists,
		"validation":     IsValidation,
		"internal":       IsInternal,
		"page not found": IsPageNotFound,
		"upstream":       IsUpstream,
		"conflict":       IsConflict,
	}
	errs := map[string]error{
		"not found":      NotFound("category soups not found"),
		"already exists": AlreadyExists("category Soups already exists"),
		"validation":     Validation("name is required"),
		"internal":       NewAppError(CodeInternal, "failed to list recipes", nil),
		"page not found": ErrPageNotFound,
		"upstream":       Upstream("image upload failed", nil),
		"conflict":       Conflict("category Soups still has recipes"),
	}

	for errName, err := range errs {
		wrapped := fmt.Errorf("service: %w", err)
		for checkName, check := range checkers {
			if got, want := check(wrapped), errName == checkName; got != want {
				t.Errorf("Is%s(%s) = %v, want %v", checkName, errName, got, want)
			}
		}
	}
	for name, check := range checkers {
		if check(errors.New("plain")) || check(nil) {
			t.Errorf("%s checker should reject non-AppErrors", name)
		}
	}
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("recipe not found"), http.StatusNotFound},
		{"page not found", ErrPageNotFound, http.StatusNotFound},
		{"already exists", AlreadyExists("recipe paella already exists"), http.StatusConflict},
		{"conflict", Conflict("country Peru still has recipes"), http.StatusConflict},
		{"validation", Validation("name is required"), http.StatusBadRequest},
		{"upstream", Upstream("image upload failed", errors.New("timeout")), http.StatusBadGateway},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("handler: %w", NotFound("gone")), http.StatusNotFound},
		{"unknown code", NewAppError(999, "unknown", nil), http.StatusInternalServerError},
		{"plain error", errors.New("plain"), http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("HTTPStatusCode() = %d; want %d", got, tt.want)
			}
		})
	}
}
