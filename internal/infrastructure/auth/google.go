package auth

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"

	"github.com/iho/totza/internal/domain"
)

// GoogleIdentity is the verified subject of a Google ID token.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

// TokenValidator validates a Google ID token for audience.
type TokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// GoogleVerifier checks Google sign-in ID tokens issued for one OAuth client.
type GoogleVerifier struct {
	clientID string
	validate TokenValidator
}

// NewGoogleVerifier creates a verifier that checks tokens against Google's published keys.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return NewGoogleVerifierWithValidator(clientID, idtoken.Validate)
}

// NewGoogleVerifierWithValidator creates a verifier with a custom validator.
func NewGoogleVerifierWithValidator(clientID string, validate TokenValidator) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: validate}
}

// Verify validates token and returns the identity it carries.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*GoogleIdentity, error) {
	if v.clientID == "" {
		return nil, fmt.Errorf("%w: google sign-in is not configured", domain.ErrUnauthorized)
	}

	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if payload.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	identity := &GoogleIdentity{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		identity.Name = name
	}

	return identity, nil
}
