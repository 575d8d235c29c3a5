package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesUserAndWallet(t *testing.T) {
	srv, a := newTestServer(t)

	_, userID := registerUser(t, srv, "alice@example.com", "ABCDE1234F")

	wallet, err := a.LedgerEngine.GetWallet(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "100000", wallet.Balance.String())
}

func TestRegisterValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"short name", map[string]string{"name": "A", "email": "a@b.com", "password": "secret123", "pan_number": "ABCDE1234F"}},
		{"bad email", map[string]string{"name": "Alice", "email": "nope", "password": "secret123", "pan_number": "ABCDE1234F"}},
		{"short password", map[string]string{"name": "Alice", "email": "a@b.com", "password": "ab", "pan_number": "ABCDE1234F"}},
		{"bad pan", map[string]string{"name": "Alice", "email": "a@b.com", "password": "secret123", "pan_number": "1234ABCDE"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestRegisterDuplicateEmailAndPAN(t *testing.T) {
	srv, _ := newTestServer(t)
	registerUser(t, srv, "alice@example.com", "ABCDE1234F")

	rr := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Bob", "email": "alice@example.com", "password": "secret123", "pan_number": "FGHIJ5678K",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeBody(t, rr)["error"], "email")

	rr = doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "secret123", "pan_number": "ABCDE1234F",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeBody(t, rr)["error"], "PAN")
}

func TestLogin(t *testing.T) {
	srv, _ := newTestServer(t)
	registerUser(t, srv, "alice@example.com", "ABCDE1234F")

	rr := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())
	body := decodeBody(t, rr)
	assert.NotEmpty(t, body["token"])

	// Wrong password
	rr = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Unknown email
	rr = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	srv, a := newTestServer(t)
	_, userID := registerUser(t, srv, "alice@example.com", "ABCDE1234F")

	ctx := context.Background()
	user, err := a.Storage.UserStore().GetUser(ctx, userID)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, a.Storage.UserStore().SaveUser(ctx, user))

	rr := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProfileGetAndUpdate(t *testing.T) {
	srv, _ := newTestServer(t)
	token, _ := registerUser(t, srv, "alice@example.com", "ABCDE1234F")

	rr := doJSON(t, srv, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	user := decodeBody(t, rr)["user"].(map[string]interface{})
	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "pending", user["kyc_status"])
	assert.NotNil(t, user["wallet_balance"])

	rr = doJSON(t, srv, http.MethodPut, "/api/auth/profile", token, map[string]string{"name": "Alice Renamed"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, srv, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	user = decodeBody(t, rr)["user"].(map[string]interface{})
	assert.Equal(t, "Alice Renamed", user["name"])
}

func TestProfileRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doJSON(t, srv, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = doJSON(t, srv, http.MethodGet, "/api/auth/profile", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestVerifyToken(t *testing.T) {
	srv, _ := newTestServer(t)
	token, userID := registerUser(t, srv, "alice@example.com", "ABCDE1234F")

	rr := doJSON(t, srv, http.MethodPost, "/api/auth/verify-token", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	user := decodeBody(t, rr)["user"].(map[string]interface{})
	assert.Equal(t, userID, user["id"])
}
