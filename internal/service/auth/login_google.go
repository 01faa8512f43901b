package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/risinglab/rising-backend/internal/domain"
)

const providerGoogle = "google"

// LoginWithGoogle performs Google OAuth authentication and returns
// access/refresh tokens. A first-time login creates the account; a returning
// login refreshes the stored profile when Google reports a change.
func (s *Service) LoginWithGoogle(ctx context.Context, input LoginGoogleInput) (*AuthResult, error) {
	if s.oauth == nil {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	identity, err := s.oauth.VerifyCode(ctx, input.Code)
	if err != nil {
		s.log.WarnContext(ctx, "oauth verification failed", slog.String("error", err.Error()))
		return nil, domain.ErrUnauthorized
	}

	identity.Email = strings.ToLower(strings.TrimSpace(identity.Email))

	user, err := s.users.GetByEmail(ctx, identity.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("auth.LoginWithGoogle get user: %w", err)
	}

	if user == nil {
		provider := providerGoogle
		newUser := &domain.User{
			Email:      identity.Email,
			Name:       derefOrEmpty(identity.Name),
			AvatarURL:  identity.AvatarURL,
			Provider:   &provider,
			ProviderID: &identity.ProviderID,
			Role:       domain.UserRoleUser,
		}

		user, err = s.users.Create(ctx, newUser)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				// Concurrent first login; the other request won the insert.
				user, err = s.users.GetByEmail(ctx, identity.Email)
			}
			if err != nil {
				return nil, fmt.Errorf("auth.LoginWithGoogle create user: %w", err)
			}
		}

		s.log.InfoContext(ctx, "user registered via oauth",
			slog.String("user_id", user.ID.String()))
	} else if profileChanged(user, identity) {
		name := user.Name
		if identity.Name != nil {
			name = *identity.Name
		}
		avatar := user.AvatarURL
		if identity.AvatarURL != nil {
			avatar = identity.AvatarURL
		}

		user, err = s.users.UpdateProfile(ctx, user.ID, name, avatar)
		if err != nil {
			return nil, fmt.Errorf("auth.LoginWithGoogle update profile: %w", err)
		}
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("auth.LoginWithGoogle issue tokens: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in via oauth",
		slog.String("user_id", user.ID.String()))

	return result, nil
}
