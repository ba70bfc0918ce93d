package service

import (
	"context"

	"google.golang.org/api/idtoken"
	"isvaryam.com/storefront/pkg/global"
)

type GoogleIdentity struct {
	Email         string
	Name          string
	EmailVerified bool
}

type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (*GoogleIdentity, error)
}

// IDTokenVerifier validates Google Sign-In ID tokens issued for one client id.
type IDTokenVerifier struct {
	audience string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewIDTokenVerifier(clientID string) *IDTokenVerifier {
	return &IDTokenVerifier{audience: clientID, validate: idtoken.Validate}
}

func (v *IDTokenVerifier) Verify(ctx context.Context, credential string) (*GoogleIdentity, error) {
	payload, err := v.validate(ctx, credential, v.audience)
	if err != nil {
		return nil, &global.Error{Kind: global.KindUnauthorized, Message: "Invalid Google credential", Err: err}
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, global.Unauthorized("Google credential carries no e-mail")
	}
	name, _ := payload.Claims["name"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	return &GoogleIdentity{Email: email, Name: name, EmailVerified: verified}, nil
}
