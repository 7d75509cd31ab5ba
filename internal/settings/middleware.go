package settings

import (
	"github.com/gofiber/fiber/v2"

	"roomdesk/internal/auth"
	"roomdesk/internal/common/locale"
)

// PreferredLocale switches the request locale to the signed-in user's saved
// language. An explicit ?lang= still wins. Must run after auth.RequireAuth.
func PreferredLocale(service Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := auth.SessionFrom(c)
		if session == nil || c.Query("lang") != "" {
			return c.Next()
		}
		if lang, err := service.SavedLanguage(c.UserContext(), session.Username); err == nil && lang != "" {
			locale.Set(c, lang)
		}
		return c.Next()
	}
}
