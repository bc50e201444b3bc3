package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tisk/backend/internal/model"
)

func seedLogin(t *testing.T, store *memStore, email, login string) {
	t.Helper()
	_, err := store.CreateAccount(context.Background(), &model.Account{
		Email:        email,
		Login:        login,
		PasswordHash: "x",
		Role:         model.RoleUser,
		Status:       model.StatusActive,
	})
	require.NoError(t, err)
}

func TestGenerateLogin(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	login, err := svc.GenerateLogin(ctx, "Test", "User")
	require.NoError(t, err)
	require.Equal(t, "tuser", login)

	seedLogin(t, store, "one@x.com", "tuser")
	login, err = svc.GenerateLogin(ctx, "Test", "User")
	require.NoError(t, err)
	require.Equal(t, "tuser1", login)

	seedLogin(t, store, "two@x.com", "tuser1")
	login, err = svc.GenerateLogin(ctx, "Test", "User")
	require.NoError(t, err)
	require.Equal(t, "tuser2", login)
}

func TestGenerateLoginStripsNonAlphanumerics(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	login, err := svc.GenerateLogin(ctx, "Ann-Marie", "O'Brien 3rd")
	require.NoError(t, err)
	require.Equal(t, "aobrien3rd", login)
}

func TestLoginBase(t *testing.T) {
	require.Equal(t, "tuser", loginBase("Test", "User"))
	require.Equal(t, "user", loginBase("", "User"))
	require.Equal(t, "t", loginBase("Test", ""))
	require.Equal(t, "", loginBase("", ""))
}
