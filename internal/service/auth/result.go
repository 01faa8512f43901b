package auth

import "github.com/risinglab/rising-backend/internal/domain"

// AuthResult is returned by login and refresh operations.
type AuthResult struct {
	AccessToken  string
	RefreshToken string // raw token, NOT hash
	User         *domain.User
}
