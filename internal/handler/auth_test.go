package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tisk/backend/internal/db"
	"github.com/tisk/backend/internal/model"
	"github.com/tisk/backend/internal/service"
	"github.com/tisk/backend/internal/token"
)

type fakeStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*model.Account
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: make(map[uuid.UUID]*model.Account)}
}

func (f *fakeStore) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acct := range f.accounts {
		if acct.Email == email {
			cp := *acct
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetAccountByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeStore) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acct := range f.accounts {
		if acct.Login == login {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateAccount(ctx context.Context, acct *model.Account) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.accounts {
		if existing.Email == acct.Email {
			return nil, db.ErrDuplicateEmail
		}
		if existing.Login == acct.Login {
			return nil, db.ErrDuplicateLogin
		}
	}
	cp := *acct
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.accounts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) UpdateAccount(ctx context.Context, acct *model.Account) (*model.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[acct.ID]; !ok {
		return nil, db.ErrNotFound
	}
	cp := *acct
	cp.UpdatedAt = time.Now()
	f.accounts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeStore) setStatus(t *testing.T, email string, status model.Status) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acct := range f.accounts {
		if acct.Email == email {
			acct.Status = status
			return
		}
	}
	t.Fatalf("no account with email %s", email)
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	secret := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	codec, err := token.NewCodec(secret, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	store := newFakeStore()
	svc := service.NewAuthService(store, codec, nil)
	router := NewRouter(NewAuthHandler(svc), codec, store, nil)
	return router, store
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerBody() model.RegisterRequest {
	return model.RegisterRequest{
		Email:     "a@x.com",
		Password:  "Aa11aaaa",
		FirstName: "Test",
		LastName:  "User",
	}
}

func decodeAuthResponse(t *testing.T, w *httptest.ResponseRecorder) model.AuthResponse {
	t.Helper()
	var resp model.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody(), "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeAuthResponse(t, w)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, "Bearer", resp.TokenType)
	require.Equal(t, "tuser", resp.User.Login)
	require.Equal(t, model.RoleUser, resp.User.Role)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody(), "")
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterEndpointValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	body := registerBody()
	body.Password = "short"
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", body, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody(), "")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
		model.LoginRequest{Email: "a@x.com", Password: "Aa11aaaa"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
		model.LoginRequest{Email: "a@x.com", Password: "wrong-password"}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	store.setStatus(t, "a@x.com", model.StatusInactive)
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
		model.LoginRequest{Email: "a@x.com", Password: "Aa11aaaa"}, "")
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody(), "")
	resp := decodeAuthResponse(t, w)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh",
		model.RefreshRequest{RefreshToken: resp.RefreshToken}, "")
	require.Equal(t, http.StatusOK, w.Code)
	refreshed := decodeAuthResponse(t, w)
	require.Equal(t, resp.RefreshToken, refreshed.RefreshToken)
	require.NotEmpty(t, refreshed.AccessToken)

	tampered := resp.RefreshToken[:len(resp.RefreshToken)-2] + "xx"
	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/refresh",
		model.RefreshRequest{RefreshToken: tampered}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody(), "")
	resp := decodeAuthResponse(t, w)

	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", nil, resp.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var me model.MeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, "a@x.com", me.User.Email)

	// Suspension locks out a still-valid token.
	store.setStatus(t, "a@x.com", model.StatusSuspended)
	w = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", nil, resp.AccessToken)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePasswordEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", registerBody(), "")
	resp := decodeAuthResponse(t, w)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/change-password",
		model.ChangePasswordRequest{
			CurrentPassword: "Aa11aaaa",
			NewPassword:     "Bb22bbbb",
			ConfirmPassword: "different",
		}, resp.AccessToken)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/change-password",
		model.ChangePasswordRequest{
			CurrentPassword: "Aa11aaaa",
			NewPassword:     "Bb22bbbb",
			ConfirmPassword: "Bb22bbbb",
		}, resp.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/auth/login",
		model.LoginRequest{Email: "a@x.com", Password: "Bb22bbbb"}, "")
	require.Equal(t, http.StatusOK, w.Code)
}
