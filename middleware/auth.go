package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"salesdash/models"
	"salesdash/utils"
)

// JWTMiddleware validates the HMAC-signed JWT provided in the Authorization header.
func JWTMiddleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(secret) == 0 {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "message": "Authentication is not configured"})
		}

		authHeader := c.Get("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT"})
		}

		claims := &models.JwtClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.ErrUnauthorized
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT"})
		}

		role, _ := utils.ValidateAndNormalizeRole(claims.Role)
		c.Locals("userID", claims.UserID)
		c.Locals("userRole", role)

		return c.Next()
	}
}

// CheckRole verifies the user has one of the specified roles.
func CheckRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals("userRole").(string)
		if !ok || !utils.IsValidRole(userRole) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "Role not found in token"})
		}

		for _, role := range roles {
			if strings.EqualFold(userRole, role) {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"status": "error", "message": "Insufficient permissions"})
	}
}

// AdminRequired checks if the user has an 'admin' role.
func AdminRequired(c *fiber.Ctx) error {
	return CheckRole(utils.RoleAdmin)(c)
}
