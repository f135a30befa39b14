package middleware

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenIssuer and TokenAudience are stamped into every access token.
	TokenIssuer   = "inkwell-api"
	TokenAudience = "inkwell-client"
	// TokenCookie carries the access token for browser sessions.
	TokenCookie = "access_token"
	// LoginPath is the authentication entry point gated routes redirect to.
	LoginPath = "/auth/login"
)

var (
	ErrMissingToken = errors.New("token required")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// TokenClaims holds the parts of an access token the app relies on.
type TokenClaims struct {
	UserID uint
	JTI    string
}

// RevocationChecker reports whether a token ID has been revoked.
type RevocationChecker func(ctx context.Context, jti string) bool

// ParseToken validates an HMAC-signed access token and extracts its claims.
func ParseToken(secret, tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	// Subject carries the user ID as a string (RFC 7519)
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	jti, _ := claims["jti"].(string)
	return &TokenClaims{UserID: uint(userID), JTI: jti}, nil
}

// ExtractToken reads the access token from the Authorization header, falling back to the session cookie.
func ExtractToken(c *fiber.Ctx) string {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Cookies(TokenCookie)
}

// Authenticate resolves the current user when a valid token is present and never rejects the request.
// Anonymous requests simply carry no "userID" local.
func Authenticate(secret string, revoked RevocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := ParseToken(secret, ExtractToken(c))
		if err != nil {
			return c.Next()
		}
		if claims.JTI != "" && revoked != nil && revoked(c.UserContext(), claims.JTI) {
			return c.Next()
		}

		c.Locals("userID", claims.UserID)
		c.Locals("tokenJTI", claims.JTI)
		ctx := context.WithValue(c.UserContext(), UserIDKey, claims.UserID)
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID, or 0 for anonymous requests.
func CurrentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// LoginRequired redirects anonymous requests to the login page, preserving the requested URL in "next".
func LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUserID(c) == 0 {
			return c.Redirect(LoginRedirectURL(c.OriginalURL()), fiber.StatusFound)
		}
		return c.Next()
	}
}

// LoginRedirectURL builds the login URL for a return path. Slashes stay literal so the
// result reads /auth/login?next=/posts/1/edit.
func LoginRedirectURL(next string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	return LoginPath + "?next=" + escaped
}

// SafeNext returns next when it is a local absolute path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}
