package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	"narrator/pkg/utils"
)

// Kind groups provider failures by what the user can do about them.
type Kind string

const (
	KindMissingKey    Kind = "missing_key"
	KindQuotaExceeded Kind = "quota_exceeded"
	KindOverloaded    Kind = "overloaded"
	KindUnauthorized  Kind = "unauthorized"
	KindGeneric       Kind = "generic"
)

var ErrEmptyCompletion = errors.New("empty completion content")

// Error is a classified provider failure.
type Error struct {
	Provider Provider
	Kind     Kind
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s %s (%d): %s", e.Provider, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of a classified error, or KindGeneric.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindGeneric
}

// Retryable reports whether waiting may help.
func (k Kind) Retryable() bool {
	return k == KindQuotaExceeded || k == KindOverloaded
}

// classify turns an SDK error into an *Error. Context cancellation is
// returned untouched so callers can tell an abort from a failure.
func classify(p Provider, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var already *Error
	if errors.As(err, &already) {
		return err
	}

	status := statusOf(err)
	out := &Error{Provider: p, Kind: kindFromStatus(status), Status: status, Err: err}
	if out.Kind == KindGeneric {
		out.Kind = kindFromMessage(err.Error())
	}
	return out
}

func statusOf(err error) int {
	var oaiErr *openai.Error
	if errors.As(err, &oaiErr) {
		return oaiErr.StatusCode
	}
	var antErr *anthropic.Error
	if errors.As(err, &antErr) {
		return antErr.StatusCode
	}
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	var gErrPtr *genai.APIError
	if errors.As(err, &gErrPtr) && gErrPtr != nil {
		return gErrPtr.Code
	}
	return 0
}

func kindFromStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusTooManyRequests:
		return KindQuotaExceeded
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout, 529:
		return KindOverloaded
	}
	return KindGeneric
}

func kindFromMessage(msg string) Kind {
	switch {
	case utils.StringContains(msg, false, "429", "quota", "resource_exhausted", "rate limit"):
		return KindQuotaExceeded
	case utils.StringContains(msg, false, "503", "overloaded", "unavailable"):
		return KindOverloaded
	case utils.StringContains(msg, false, "401", "403", "invalid api key", "api key not valid", "permission_denied", "unauthenticated"):
		return KindUnauthorized
	}
	return KindGeneric
}
