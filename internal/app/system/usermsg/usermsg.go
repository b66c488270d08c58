// Package usermsg turns errors into the one-line messages users see.
//
// Three kinds are distinguished:
//   - local validation errors carry their own message (UserMessage)
//   - transport failures get a generic, retryable message
//   - API business errors show the API's message when it sent one,
//     otherwise the caller's resource-specific fallback
package usermsg

import (
	"context"
	"errors"
	"html"
	"strings"
	"sync"

	"github.com/dalemusser/nursinghub/internal/app/system/apiclient"
	"github.com/microcosm-cc/bluemonday"
)

const (
	// Transport is shown when the API could not be reached.
	Transport = "We couldn't reach the admissions service. Please check your connection and try again."
	// SessionExpired is shown after the API rejects the stored token.
	SessionExpired = "Your session has expired. Please sign in again."
	// Generic is the fallback of last resort.
	Generic = "Something went wrong. Please try again."

	maxLen = 300
)

// Messager is implemented by errors that already carry user-facing text.
type Messager interface {
	UserMessage() string
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func strict() *bluemonday.Policy {
	policyOnce.Do(func() { policy = bluemonday.StrictPolicy() })
	return policy
}

// For returns the message to show for err. fallback is used for API errors
// that carry no message; an empty fallback means Generic.
func For(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if fallback == "" {
		fallback = Generic
	}

	var m Messager
	if errors.As(err, &m) {
		if msg := Clean(m.UserMessage()); msg != "" {
			return msg
		}
		return fallback
	}

	if errors.Is(err, apiclient.ErrTransport) || errors.Is(err, context.DeadlineExceeded) {
		return Transport
	}

	var ae *apiclient.Error
	if errors.As(err, &ae) {
		if ae.Status == 401 {
			return SessionExpired
		}
		if msg := Clean(ae.Message); msg != "" {
			return msg
		}
		if msg := Clean(ae.FieldMessage()); msg != "" {
			return msg
		}
	}
	return fallback
}

// Clean strips markup from text that came from outside, collapses
// whitespace and caps the length. Templates escape the result again.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = html.UnescapeString(strict().Sanitize(s))
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxLen {
		s = strings.TrimSpace(string(r[:maxLen-1])) + "…"
	}
	return s
}
