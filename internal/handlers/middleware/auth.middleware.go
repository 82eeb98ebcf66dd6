package middleware

import (
	"context"
	"strings"

	"innkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthContextKey is used to store auth info in context
type AuthContextKey string

const (
	UserKey      AuthContextKey = "user"
	UserKeyFiber string         = "User" // Fiber context key (string)
)

// RequireAuth validates the bearer token and loads the user, rejecting
// the request when either fails.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.Context()).Function("RequireAuth")

		user, err := m.resolveUser(c)
		if err != nil {
			log.Info("authentication failed", "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		storeUser(c, user)

		return c.Next()
	}
}

// OptionalAuth loads the user when a valid token is present and lets the
// request through anonymously otherwise. Public catalog reads use it so
// authenticated callers still resolve in request locals.
func (m *Middleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, err := m.resolveUser(c); err == nil {
			storeUser(c, user)
		}

		return c.Next()
	}
}

func (m *Middleware) resolveUser(c *fiber.Ctx) (*models.User, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "authorization header required")
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "bearer") {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header format")
	}

	userID, err := m.parseToken(tokenParts[1])
	if err != nil {
		return nil, err
	}

	user, err := m.userRepo.GetByID(c.Context(), m.DB.SQL, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "user is deactivated")
	}

	return user, nil
}

// parseToken verifies an HS256 token and returns the user id carried in
// the subject claim.
func (m *Middleware) parseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(m.Config.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}

	return uuid.Parse(claims.Subject)
}

func storeUser(c *fiber.Ctx, user *models.User) {
	c.Locals(UserKeyFiber, user)

	ctx := context.WithValue(c.UserContext(), UserKey, user)
	c.SetUserContext(ctx)
}

// GetUser extracts user from Fiber context
func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}
