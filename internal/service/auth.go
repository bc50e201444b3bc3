package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tisk/backend/internal/crypto"
	"github.com/tisk/backend/internal/db"
	"github.com/tisk/backend/internal/model"
	"github.com/tisk/backend/internal/token"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateLogin     = errors.New("login already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountNotActive   = errors.New("account is not active")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrPasswordMismatch   = errors.New("passwords don't match")
	ErrIncorrectPassword  = errors.New("current password incorrect")
)

// CredentialStore is the persistence boundary the session service talks to.
// Save paths must enforce uniqueness on email and login; the store's
// duplicate errors, not the service's pre-checks, decide races.
type CredentialStore interface {
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByLogin(ctx context.Context, login string) (bool, error)
	CreateAccount(ctx context.Context, acct *model.Account) (*model.Account, error)
	UpdateAccount(ctx context.Context, acct *model.Account) (*model.Account, error)
}

// AuthResult is what every token-issuing operation hands back.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime, milliseconds
	Account      *model.Account
}

type AuthService struct {
	store CredentialStore
	codec *token.Codec
	authn Authenticator
	log   *slog.Logger
}

func NewAuthService(store CredentialStore, codec *token.Codec, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store: store,
		codec: codec,
		authn: &passwordAuthenticator{store: store},
		log:   logger,
	}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*AuthResult, error) {
	exists, err := s.store.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	login := req.Login
	if login != "" {
		taken, err := s.store.ExistsByLogin(ctx, login)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateLogin
		}
	} else {
		login, err = s.GenerateLogin(ctx, req.FirstName, req.LastName)
		if err != nil {
			return nil, err
		}
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	acct, err := s.store.CreateAccount(ctx, &model.Account{
		Email:        req.Email,
		Login:        login,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleUser,
		Status:       model.StatusActive,
		PhoneNumber:  req.PhoneNumber,
		Department:   req.Department,
		Position:     req.Position,
	})
	if err != nil {
		return nil, mapStoreErr(err)
	}

	result, err := s.issueTokens(ctx, acct)
	if err != nil {
		return nil, err
	}
	s.log.Info("account registered", "id", acct.ID, "login", acct.Login)
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := s.authn.Authenticate(ctx, email, password); err != nil {
		return nil, err
	}

	// The authenticator just matched this email; handle a vanished row anyway.
	acct, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if acct.Status != model.StatusActive {
		return nil, ErrAccountNotActive
	}

	result, err := s.issueTokens(ctx, acct)
	if err != nil {
		return nil, err
	}
	s.log.Info("account logged in", "id", acct.ID)
	return result, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.codec.DecodeRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	acct, err := s.store.GetAccountByEmail(ctx, claims.Subject)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if !s.codec.IsValidFor(refreshToken, acct) {
		return nil, ErrInvalidToken
	}

	accessToken, err := s.codec.IssueAccess(acct)
	if err != nil {
		return nil, err
	}

	s.log.Info("access token refreshed", "id", acct.ID)
	// The refresh token is not rotated; the caller keeps using the one it sent.
	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.codec.AccessTTL().Milliseconds(),
		Account:      acct,
	}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, email string, req model.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	acct, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return ErrAccountNotFound
		}
		return err
	}

	if err := crypto.CheckPassword(acct.PasswordHash, req.CurrentPassword); err != nil {
		return ErrIncorrectPassword
	}

	hash, err := crypto.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	acct.PasswordHash = hash
	if _, err := s.store.UpdateAccount(ctx, acct); err != nil {
		return mapStoreErr(err)
	}
	s.log.Info("password changed", "id", acct.ID)
	return nil
}

// EnsureAdmin seeds the configured admin account on startup. A blank email
// disables seeding; an already-present account is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, firstName, lastName string) error {
	if email == "" {
		return nil
	}
	if password == "" {
		return errors.New("ADMIN_PASSWORD is required when ADMIN_EMAIL is set")
	}

	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	login, err := s.GenerateLogin(ctx, firstName, lastName)
	if err != nil {
		return err
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	acct, err := s.store.CreateAccount(ctx, &model.Account{
		Email:        email,
		Login:        login,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         model.RoleAdmin,
		Status:       model.StatusActive,
	})
	if err != nil {
		// Lost a race against another replica seeding the same account.
		if errors.Is(mapStoreErr(err), ErrDuplicateEmail) {
			return nil
		}
		return mapStoreErr(err)
	}
	s.log.Info("admin account seeded", "id", acct.ID, "login", acct.Login)
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, acct *model.Account) (*AuthResult, error) {
	accessToken, err := s.codec.IssueAccess(acct)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.codec.IssueRefresh(acct)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	acct.LastLoginAt = &now
	acct, err = s.store.UpdateAccount(ctx, acct)
	if err != nil {
		return nil, mapStoreErr(err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.codec.AccessTTL().Milliseconds(),
		Account:      acct,
	}, nil
}

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, db.ErrDuplicateEmail):
		return ErrDuplicateEmail
	case errors.Is(err, db.ErrDuplicateLogin):
		return ErrDuplicateLogin
	default:
		return err
	}
}
