package service

import (
	"context"

	"github.com/tisk/backend/internal/crypto"
	"github.com/tisk/backend/internal/db"
)

// Authenticator is the credential-verification boundary Login delegates to.
// It answers only "do these credentials match": any mismatch, including an
// unknown email, comes back as ErrInvalidCredentials so callers cannot probe
// which addresses are registered.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) error
}

type passwordAuthenticator struct {
	store CredentialStore
}

func (a *passwordAuthenticator) Authenticate(ctx context.Context, email, password string) error {
	acct, err := a.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return ErrInvalidCredentials
		}
		return err
	}
	if err := crypto.CheckPassword(acct.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
