// Package middleware provides authentication, logging, rate limiting and
// metrics middleware for the application.
package middleware

import (
	"context"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TokenCookieName is the cookie carrying the signed session claim.
const TokenCookieName = "token"

// Gate is the authentication gate sitting at the trust boundary. It decodes
// the bearer token cookie exactly once and attaches the typed session claims
// to the request; downstream handlers never inspect the raw token.
type Gate struct {
	codec   *auth.TokenCodec
	revoker *auth.Revoker
}

// NewGate builds an authentication gate from the token codec and the
// optional revoker.
func NewGate(codec *auth.TokenCodec, revoker *auth.Revoker) *Gate {
	return &Gate{codec: codec, revoker: revoker}
}

// SessionCookie builds the bearer token cookie: HTTP-only, same-site strict,
// path /, max-age equal to the token validity window.
func (g *Gate) SessionCookie(token string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(g.codec.TTL() / time.Second),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}

// clearCookie expires the token cookie on the client.
func clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

// ClearSession expires the token cookie on the client.
func (g *Gate) ClearSession(c *fiber.Ctx) {
	clearCookie(c)
}

// verify decodes the cookie and applies the revocation check. It returns the
// claims and user ID, or (nil, 0) for any failure; the caller never learns
// which sub-reason applied.
func (g *Gate) verify(c *fiber.Ctx) (*auth.SessionClaims, uint) {
	tokenString := c.Cookies(TokenCookieName)
	if tokenString == "" {
		return nil, 0
	}
	claims, err := g.codec.Verify(tokenString)
	if err != nil {
		return nil, 0
	}
	if g.revoker != nil && g.revoker.IsRevoked(c.Context(), claims) {
		return nil, 0
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, 0
	}
	return claims, userID
}

func attachSession(c *fiber.Ctx, claims *auth.SessionClaims, userID uint) {
	c.Locals("userID", userID)
	c.Locals("session", claims)
	// Sync to UserContext for logging and downstream services
	ctx := context.WithValue(c.UserContext(), UserIDKey, userID)
	c.SetUserContext(ctx)
}

// Optional attaches the session when a valid token cookie is present and
// otherwise lets the request continue anonymously. An invalid cookie is
// cleared so the client stops presenting it. This middleware never blocks.
func (g *Gate) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Cookies(TokenCookieName) == "" {
			return c.Next()
		}
		claims, userID := g.verify(c)
		if claims == nil {
			clearCookie(c)
			return c.Next()
		}
		attachSession(c, claims, userID)
		return c.Next()
	}
}

// Required rejects the request with a uniform 401 when no valid session is
// present; the downstream handler is never invoked. The response does not
// distinguish missing, expired, tampered or revoked tokens.
func (g *Gate) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, userID := g.verify(c)
		if claims == nil {
			clearCookie(c)
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required"))
		}
		attachSession(c, claims, userID)
		return c.Next()
	}
}

// SessionFromCtx returns the decoded session claims attached by the gate,
// or nil for anonymous requests.
func SessionFromCtx(c *fiber.Ctx) *auth.SessionClaims {
	claims, _ := c.Locals("session").(*auth.SessionClaims)
	return claims
}

// UserIDFromCtx returns the authenticated user ID, or false for anonymous
// requests.
func UserIDFromCtx(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}
