package server

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenLifetime = 7 * 24 * time.Hour

func revokedTokenKey(jti string) string {
	return "blacklist:" + jti
}

// SignupForm godoc
// @Summary Signup form
// @Tags auth
// @Produce json
// @Success 200 {object} Page
// @Router /auth/signup [get]
func (s *Server) SignupForm(c *fiber.Ctx) error {
	return s.render(c, tmplSignup, AuthFormPage{Form: map[string]string{}})
}

// Signup godoc
// @Summary Create an account
// @Description Registers the user without logging them in and redirects to the global feed.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param first_name formData string false "First name"
// @Param last_name formData string false "Last name"
// @Param username formData string true "Username"
// @Param password1 formData string true "Password"
// @Param password2 formData string true "Password confirmation"
// @Success 302 "Redirect to the global feed"
// @Failure 400 {object} Page
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	in := validation.SignupInput{
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Username:  c.FormValue("username"),
		Password1: c.FormValue("password1"),
		Password2: c.FormValue("password2"),
	}

	if _, err := s.userService.Signup(c.UserContext(), in); err != nil {
		if fields := fieldErrors(err); fields != nil {
			return s.renderStatus(c, fiber.StatusBadRequest, tmplSignup, AuthFormPage{
				Form: map[string]string{
					"first_name": in.FirstName,
					"last_name":  in.LastName,
					"username":   in.Username,
				},
				Errors: fields,
			})
		}
		return s.respondError(c, err)
	}

	return c.Redirect("/", fiber.StatusFound)
}

// LoginForm godoc
// @Summary Login form
// @Tags auth
// @Produce json
// @Param next query string false "Path to return to after login"
// @Success 200 {object} Page
// @Router /auth/login [get]
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return s.render(c, tmplLogin, AuthFormPage{
		Form: map[string]string{},
		Next: middleware.SafeNext(c.Query("next"), ""),
	})
}

// Login godoc
// @Summary Log in
// @Description Sets the access_token cookie and redirects to next, or to the global feed.
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param next formData string false "Path to return to"
// @Success 302 "Redirect to next"
// @Failure 400 {object} Page
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	username := c.FormValue("username")
	next := c.FormValue("next", c.Query("next"))

	user, err := s.userService.Authenticate(c.UserContext(), username, c.FormValue("password"))
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeUnauthenticated {
			return s.renderStatus(c, fiber.StatusBadRequest, tmplLogin, AuthFormPage{
				Form:   map[string]string{"username": username},
				Errors: map[string][]string{nonFieldErrors: {appErr.Message}},
				Next:   middleware.SafeNext(next, ""),
			})
		}
		return s.respondError(c, err)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(tokenLifetime),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Redirect(middleware.SafeNext(next, "/"), fiber.StatusFound)
}

// Logout godoc
// @Summary Log out
// @Description Revokes the current token and clears the session cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} Page
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if jti, ok := c.Locals("tokenJTI").(string); ok && jti != "" && s.redis != nil {
		if err := s.redis.Set(c.UserContext(), revokedTokenKey(jti), "1", tokenLifetime).Err(); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "token revocation failed", "error", err)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return s.render(c, tmplLoggedOut, struct{}{})
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10), // Subject (user ID as string)
		"username": username,
		"iss":      middleware.TokenIssuer,
		"aud":      middleware.TokenAudience,
		"exp":      now.Add(tokenLifetime).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
