package middleware

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

var _ tokenValidator = &tokenValidatorMock{}

// tokenValidatorMock records every token handed to ValidateToken and
// delegates the verdict to ValidateTokenFunc.
type tokenValidatorMock struct {
	ValidateTokenFunc func(ctx context.Context, token string) (uuid.UUID, string, error)

	mu     sync.Mutex
	tokens []string
}

func (m *tokenValidatorMock) ValidateToken(ctx context.Context, token string) (uuid.UUID, string, error) {
	m.mu.Lock()
	m.tokens = append(m.tokens, token)
	m.mu.Unlock()

	if m.ValidateTokenFunc == nil {
		panic("tokenValidatorMock: ValidateTokenFunc not set")
	}
	return m.ValidateTokenFunc(ctx, token)
}

// ValidateTokenCalls returns the tokens seen so far, one per call.
func (m *tokenValidatorMock) ValidateTokenCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.tokens...)
}
