package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func JwtMiddleware(ctx *fiber.Ctx) error {
	claims, ok := parseBearer(ctx)
	if !ok {
		return nil // response already written
	}

	ctx.Locals("user_id", claims["user_id"])
	ctx.Locals("role", claims["role"])
	return ctx.Next()
}

// AdminMiddleware additionally requires the admin role claim.
func AdminMiddleware(ctx *fiber.Ctx) error {
	claims, ok := parseBearer(ctx)
	if !ok {
		return nil
	}

	role, _ := claims["role"].(string)
	if role != "admin" {
		return ctx.Status(fiber.StatusForbidden).JSON(ErrorResponse(403, "Admin access required"))
	}

	ctx.Locals("user_id", claims["user_id"])
	ctx.Locals("role", role)
	return ctx.Next()
}

// parseBearer validates the Authorization header. On failure it writes the
// 401 response itself and returns ok=false.
func parseBearer(ctx *fiber.Ctx) (jwt.MapClaims, bool) {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		_ = ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing token"))
		return nil, false
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret()), nil
	})

	if err != nil || !token.Valid {
		_ = ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid or expired token"))
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		_ = ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid token claims"))
		return nil, false
	}

	return claims, true
}

func jwtSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	return secret
}
