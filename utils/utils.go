package utils

import (
	// External Packages
	"github.com/google/uuid"
)

// NewOriginatorConversationID produces the idempotency key correlating a
// payment with its asynchronous result: a 36-character UUID v4 string.
// Callers assign it once per payment and never regenerate it.
func NewOriginatorConversationID() string {
	return uuid.NewString()
}
