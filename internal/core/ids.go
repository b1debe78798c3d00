// internal/core/ids.go
// Identifier generation, grounded on the teacher's utils.GenerateUUID.

package core

import "github.com/google/uuid"

// NewID generates a new random identifier for a Player, Match, or Session.
func NewID() string {
	return uuid.New().String()
}
