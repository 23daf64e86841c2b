package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewTraceParent builds a W3C traceparent header value with fresh
// trace and parent ids.
func NewTraceParent() string {
	traceID := strings.ReplaceAll(uuid.NewString(), "-", "")
	spanID := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]

	return "00-" + traceID + "-" + spanID + "-01"
}

// EnsureTraceParent returns the given traceparent, or a fresh one when
// the original request carried none.
func EnsureTraceParent(existing string) string {
	if strings.TrimSpace(existing) != "" {
		return existing
	}
	return NewTraceParent()
}
