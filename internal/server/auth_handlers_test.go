package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func signupForm(username string) url.Values {
	return url.Values{
		"first_name": {"Leo"},
		"last_name":  {"Tolstoy"},
		"username":   {username},
		"password1":  {"war-and-peace-1869"},
		"password2":  {"war-and-peace-1869"},
	}
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	resp := env.postForm(t, "/auth/signup", signupForm("leo"), nil)

	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
	assert.Empty(t, resp.Cookies(), "signup must not log the user in")

	var user models.User
	require.NoError(t, env.db.Where("username = ?", "leo").First(&user).Error)
	assert.Equal(t, "Leo Tolstoy", user.FullName())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("war-and-peace-1869")))
}

func TestSignup_Errors(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "leo")

	mismatch := signupForm("anna")
	mismatch.Set("password2", "something-else-entirely")

	tests := []struct {
		name      string
		form      url.Values
		wantField string
	}{
		{name: "duplicate username", form: signupForm("leo"), wantField: "username"},
		{name: "password mismatch", form: mismatch, wantField: "password2"},
		{name: "missing username", form: signupForm(""), wantField: "username"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.postForm(t, "/auth/signup", tc.form, nil)
			require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			page := decodePage[AuthFormPage](t, resp)
			assert.Equal(t, tmplSignup, page.Template)
			assert.NotEmpty(t, page.Context.Errors[tc.wantField])
		})
	}

	assert.Equal(t, int64(1), testutil.CountRows(t, env.db, &models.User{}))
}

func createUserWithPassword(t *testing.T, env *testEnv, username, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Username: username, Password: string(hash)}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	createUserWithPassword(t, env, "leo", "war-and-peace-1869")

	tests := []struct {
		name         string
		next         string
		wantLocation string
	}{
		{name: "no next", next: "", wantLocation: "/"},
		{name: "local next", next: "/create", wantLocation: "/create"},
		{name: "external next", next: "https://evil.example/", wantLocation: "/"},
		{name: "protocol relative next", next: "//evil.example/", wantLocation: "/"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.postForm(t, "/auth/login", url.Values{
				"username": {"leo"},
				"password": {"war-and-peace-1869"},
				"next":     {tc.next},
			}, nil)

			require.Equal(t, fiber.StatusFound, resp.StatusCode)
			assert.Equal(t, tc.wantLocation, resp.Header.Get(fiber.HeaderLocation))

			cookie := findCookie(resp, middleware.TokenCookie)
			require.NotNil(t, cookie)
			assert.True(t, cookie.HttpOnly)
			assert.NotEmpty(t, cookie.Value)
		})
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	createUserWithPassword(t, env, "leo", "war-and-peace-1869")

	for _, username := range []string{"leo", "nobody"} {
		resp := env.postForm(t, "/auth/login?next=/follow", url.Values{
			"username": {username},
			"password": {"wrong-password"},
		}, nil)

		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Nil(t, findCookie(resp, middleware.TokenCookie))

		page := decodePage[AuthFormPage](t, resp)
		assert.Equal(t, tmplLogin, page.Template)
		assert.Equal(t, "/follow", page.Context.Next)
		assert.NotEmpty(t, page.Context.Errors[nonFieldErrors])
	}
}

func TestLoginForm_KeepsNext(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/auth/login?next=/create", nil)

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := decodePage[AuthFormPage](t, resp)
	assert.Equal(t, "/create", page.Context.Next)
}

func TestLogout_RevokesToken(t *testing.T) {
	env := newTestEnv(t)
	createUserWithPassword(t, env, "leo", "war-and-peace-1869")

	resp := env.postForm(t, "/auth/login", url.Values{
		"username": {"leo"},
		"password": {"war-and-peace-1869"},
	}, nil)
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	session := findCookie(resp, middleware.TokenCookie)
	require.NotNil(t, session)

	withSession := func(method, target string) *http.Response {
		req := httptest.NewRequest(method, target, nil)
		req.AddCookie(&http.Cookie{Name: session.Name, Value: session.Value})
		return env.do(t, req, nil)
	}

	resp = withSession(http.MethodGet, "/follow")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = withSession(http.MethodPost, "/auth/logout")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := decodePage[struct{}](t, resp)
	assert.Equal(t, tmplLoggedOut, page.Template)
	cleared := findCookie(resp, middleware.TokenCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	resp = withSession(http.MethodGet, "/follow")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?next=/follow", resp.Header.Get(fiber.HeaderLocation))
}

func TestLogout_Anonymous(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/auth/logout", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.server.generateToken(42, "leo")
	require.NoError(t, err)

	claims, err := middleware.ParseToken(env.server.config.JWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.NotEmpty(t, claims.JTI)
}
