package chat

import (
	"strings"
	"time"
)

// AnonymousUserID is used when a request carries no user identifier.
const AnonymousUserID = "anonymous"

// Turn is one immutable message of a user's conversation with the companion.
type Turn struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Content    string    `json:"content"`
	IsFromUser bool      `json:"isFromUser"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NormalizeUserID trims the identifier and falls back to AnonymousUserID.
func NormalizeUserID(userID string) string {
	if trimmed := strings.TrimSpace(userID); trimmed != "" {
		return trimmed
	}
	return AnonymousUserID
}
