// internal/utils/helpers.go
// General utility functions shared across the adapter layer.

package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUID generates a new UUID.
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateRequestID generates a unique request ID for log correlation.
func GenerateRequestID() string {
	return fmt.Sprintf("req_%s", GenerateUUID())
}
