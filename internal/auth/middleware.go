package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bugtrail/bugtrail/internal/domain"
)

const currentUserKey = "auth_current_user"

// SessionMiddleware resolves the current user from a bearer token or the session
// cookie. It never rejects a request: a missing or invalid token just leaves the
// request without a user.
type SessionMiddleware struct {
	tokens     *TokenManager
	cookieName string
	logger     *zap.Logger
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(tokens *TokenManager, cookieName string, logger *zap.Logger) *SessionMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionMiddleware{tokens: tokens, cookieName: cookieName, logger: logger}
}

// Handle attaches the current user, if any, to the request.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" && m.cookieName != "" {
		token = c.Cookies(m.cookieName)
	}
	if token == "" {
		return c.Next()
	}

	user, err := m.tokens.ParseToken(token)
	if err != nil {
		m.logger.Debug("ignoring invalid session token", zap.Error(err))
		return c.Next()
	}

	c.Locals(currentUserKey, user)
	return c.Next()
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(currentUserKey).(*domain.User)
	return user
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
