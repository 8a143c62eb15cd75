package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// GoogleIdentity is the subset of a verified Google ID token the server uses.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (GoogleIdentity, error)
}

// GoogleTokenVerifier validates ID tokens against Google's published keys.
type GoogleTokenVerifier struct {
	clientID string
}

func NewGoogleTokenVerifier(clientID string) *GoogleTokenVerifier {
	return &GoogleTokenVerifier{clientID: clientID}
}

func (v *GoogleTokenVerifier) Verify(ctx context.Context, idToken string) (GoogleIdentity, error) {
	if v.clientID == "" {
		return GoogleIdentity{}, errors.New("google sign-in is not configured")
	}

	payload, err := idtoken.Validate(ctx, idToken, v.clientID)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("validate google id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return GoogleIdentity{}, errors.New("google id token has no email claim")
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return GoogleIdentity{}, errors.New("google account email is not verified")
	}

	name, _ := payload.Claims["name"].(string)

	return GoogleIdentity{
		Subject: payload.Subject,
		Email:   email,
		Name:    name,
	}, nil
}
