package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/users/register", gin.H{
		"name":     "Jane",
		"email":    "Jane@Example.com",
		"password": "123456",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	registered := decodeJSON[AuthResponse](t, rec)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "jane@example.com", registered.Email)
	assert.False(t, registered.IsAdmin)

	claims, err := env.issuer.Parse(registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.ID)
	assert.Contains(t, env.jar, "userInfo")

	rec = env.do(http.MethodPost, "/api/users/login", gin.H{
		"email":    "jane@example.com",
		"password": "123456",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, registered.ID, decodeJSON[AuthResponse](t, rec).ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("Jane", "jane@example.com", false)

	rec := env.do(http.MethodPost, "/api/users/register", gin.H{
		"name":     "Other",
		"email":    "jane@example.com",
		"password": "abcdef",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already registered", message(t, rec))
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/users/register", gin.H{
		"name":     "Jane",
		"email":    "not-an-email",
		"password": "123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, message(t, rec))
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("Jane", "jane@example.com", false)

	for _, body := range []gin.H{
		{"email": "jane@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "123456"},
	} {
		rec := env.do(http.MethodPost, "/api/users/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid email or password", message(t, rec))
	}
	assert.NotContains(t, env.jar, "userInfo")
}

func TestLogoutClearsState(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("Jane", "jane@example.com", false)

	rec := env.do(http.MethodPost, "/api/users/login", gin.H{"email": "jane@example.com", "password": "123456"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env.do(http.MethodPut, "/api/cart/payment", gin.H{"paymentMethod": "PayPal"}, "")
	require.Contains(t, env.jar, "paymentMethod")

	rec = env.do(http.MethodPost, "/api/users/logout", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out", message(t, rec))
	assert.NotContains(t, env.jar, "userInfo")
	assert.NotContains(t, env.jar, "paymentMethod")

	rec = env.do(http.MethodGet, "/api/checkout/next", nil, "")
	assert.Equal(t, "/login?redirect=/shipping", decodeJSON[map[string]string](t, rec)["next"])
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser("Jane", "jane@example.com", false)
	env.createUser("John", "john@example.com", true)

	rec := env.do(http.MethodPut, "/api/users/profile", gin.H{
		"name":     "Jane Doe",
		"email":    "jane.doe@example.com",
		"password": "654321",
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeJSON[AuthResponse](t, rec)
	assert.Equal(t, "Jane Doe", resp.Name)
	assert.NotEqual(t, token, resp.Token)

	stored := env.users.items[user.ID]
	assert.Equal(t, "jane.doe@example.com", stored.Email)

	rec = env.do(http.MethodPost, "/api/users/login", gin.H{"email": "jane.doe@example.com", "password": "654321"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPut, "/api/users/profile", gin.H{
		"name":  "Jane Doe",
		"email": "john@example.com",
	}, token)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateProfileRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPut, "/api/users/profile", gin.H{"name": "x", "email": "x@example.com"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPut, "/api/users/profile", gin.H{"name": "x", "email": "x@example.com"}, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
