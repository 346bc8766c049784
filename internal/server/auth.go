package server

import (
	"context"
	"strconv"
	"strings"
	"time"

	"recipebox/internal/middleware"
	"recipebox/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "recipebox-api"
	tokenAudience = "recipebox-client"

	// loginPath is where unauthenticated callers are pointed.
	loginPath = "/api/auth/login"
	// defaultNext is the fallback post-login destination.
	defaultNext = "/api/posts"

	sessionLifetime  = 24 * time.Hour
	rememberLifetime = 30 * 24 * time.Hour
)

// generateToken issues a signed HS256 token for the user. remember extends
// the lifetime from one day to thirty.
func (s *Server) generateToken(userID uint, username string, remember bool) (string, error) {
	lifetime := sessionLifetime
	if remember {
		lifetime = rememberLifetime
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"jti":      uuid.NewString(),
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SecretKey))
}

// respondUnauthorized writes a 401 carrying the login entry point and the
// originally requested path so the client can come back after logging in.
func respondUnauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
		Error: message,
		Code:  "UNAUTHORIZED",
		Login: loginPath,
		Next:  c.OriginalURL(),
	})
}

// AuthRequired returns the authentication middleware. On success the acting
// user's ID and the token's jti/expiry land in Fiber locals and the request
// context; on failure the response points at the login flow.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return respondUnauthorized(c, "Please log in to access this page")
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.SecretKey), nil
		})
		if err != nil || !token.Valid {
			return respondUnauthorized(c, "Invalid or expired token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return respondUnauthorized(c, "Invalid token claims")
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
			return respondUnauthorized(c, "Invalid token issuer")
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
			return respondUnauthorized(c, "Invalid token audience")
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return respondUnauthorized(c, "Invalid subject claim")
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return respondUnauthorized(c, "Invalid user ID in token")
		}

		jti, _ := claims["jti"].(string)
		if jti != "" && s.sessions.IsRevoked(c.Context(), jti) {
			return respondUnauthorized(c, "Token has been revoked")
		}

		c.Locals("userID", uint(userID))
		c.Locals("jti", jti)
		if exp, expOk := claims["exp"].(float64); expOk {
			c.Locals("tokenExp", time.Unix(int64(exp), 0))
		}
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}
