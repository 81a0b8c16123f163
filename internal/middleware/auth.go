// Package middleware provides HTTP middleware for the fiber app. The auth
// middleware validates bearer tokens and puts the caller's wallet owner
// claims on the request context.
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ClaimsKey is the context local under which OwnerClaims are stored.
const ClaimsKey = "claims"

// OwnerClaims identify the wallet owner a token was issued for.
type OwnerClaims struct {
	OwnerID   string `json:"owner_id"`
	OwnerType string `json:"owner_type"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware handles JWT token validation.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// Handler validates the Authorization header and stores the claims on the
// context under ClaimsKey.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing authorization header"})
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid authorization format"})
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.ParseWithClaims(tokenString, &OwnerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		log.Printf("token validation error: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}
	if !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
	}

	claims, ok := token.Claims.(*OwnerClaims)
	if !ok || claims.OwnerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}

	c.Locals(ClaimsKey, claims)
	return c.Next()
}

// AdminOnly rejects callers whose claims do not carry the admin role.
func AdminOnly(c *fiber.Ctx) error {
	claims, ok := c.Locals(ClaimsKey).(*OwnerClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid claims"})
	}
	if claims.Role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient permissions"})
	}
	return c.Next()
}

// ClaimsFromContext fetches the owner claims placed by Handler, or nil.
func ClaimsFromContext(c *fiber.Ctx) *OwnerClaims {
	claims, _ := c.Locals(ClaimsKey).(*OwnerClaims)
	return claims
}
