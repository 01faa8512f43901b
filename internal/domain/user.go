package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an admin-panel account. PasswordHash is nil for OAuth-only users.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash *string   `json:"-"`
	AvatarURL    *string   `json:"avatarUrl,omitempty"`
	Provider     *string   `json:"-"`
	ProviderID   *string   `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RefreshToken is a stored (hashed) refresh token.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
