package auth

import (
	"context"
	"errors"
	"fmt"

	mw "github.com/5w1tchy/novelia-api/internal/api/middlewares"
	jwtutil "github.com/5w1tchy/novelia-api/internal/security/jwt"
)

var errTokenRevoked = errors.New("token revoked")

// Authenticator verifies access tokens and reloads the user so role changes apply at once.
type Authenticator struct {
	signer  *jwtutil.Signer
	revoked Revoker
	users   UserStore
}

func NewAuthenticator(signer *jwtutil.Signer, revoked Revoker, users UserStore) *Authenticator {
	return &Authenticator{signer: signer, revoked: revoked, users: users}
}

func (a *Authenticator) Authenticate(ctx context.Context, token string) (mw.Principal, error) {
	claims, err := a.signer.Parse(token)
	if err != nil {
		return mw.Principal{}, err
	}
	revoked, err := a.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return mw.Principal{}, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return mw.Principal{}, errTokenRevoked
	}
	id, err := claims.UserID()
	if err != nil {
		return mw.Principal{}, fmt.Errorf("subject: %w", err)
	}
	u, err := a.users.FindUserByID(ctx, id)
	if err != nil {
		return mw.Principal{}, err
	}
	return mw.Principal{
		UserID:      u.ID,
		IsStaff:     u.IsAdmin(),
		IsSuperuser: u.IsSuperuser,
		TokenID:     claims.ID,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
