package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"roomdesk/internal/common/locale"
	"roomdesk/internal/common/response"
	"roomdesk/internal/notify"
)

const (
	SessionLocal  = "session"
	SessionHeader = "X-Session-ID"
)

// SessionID reads the session id from the cookie, the X-Session-ID header
// or a "Session <id>" Authorization header.
func SessionID(c *fiber.Ctx, cookieName string) string {
	if id := c.Cookies(cookieName); id != "" {
		return id
	}
	if id := c.Get(SessionHeader); id != "" {
		return id
	}
	if parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2); len(parts) == 2 && parts[0] == "Session" {
		return parts[1]
	}
	return ""
}

// RequireAuth guards the user area.
func RequireAuth(svc *Service, cookieName string, notifier *notify.Notifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := svc.Restore(c.UserContext(), SessionID(c, cookieName))
		if err != nil {
			return response.Failure(c, err, notifier.FromError(locale.From(c), err))
		}

		c.Locals(SessionLocal, session)
		return c.Next()
	}
}

// RequireAdmin guards the admin area. It must run after RequireAuth.
func RequireAdmin(notifier *notify.Notifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := SessionFrom(c)
		if session == nil || !session.IsAdmin() {
			return response.Forbidden(c, notifier.Text(locale.From(c), "auth.forbidden"))
		}
		return c.Next()
	}
}

// SessionFrom returns the session attached by RequireAuth.
func SessionFrom(c *fiber.Ctx) *Session {
	session, _ := c.Locals(SessionLocal).(*Session)
	return session
}
