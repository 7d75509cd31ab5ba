package locale

import (
	"github.com/gofiber/fiber/v2"

	"roomdesk/internal/i18n"
)

const localsKey = "locale"

// Middleware resolves the request locale from ?lang=, then Accept-Language,
// then def.
func Middleware(bundle *i18n.Bundle, def string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := bundle.FromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage), def)
		if q := c.Query("lang"); q != "" && bundle.Has(q) {
			lang = i18n.Normalize(q)
		}
		Set(c, lang)
		return c.Next()
	}
}

// Set overrides the request locale.
func Set(c *fiber.Ctx, lang string) {
	c.Locals(localsKey, lang)
}

// From returns the locale chosen by Middleware, or the fallback locale.
func From(c *fiber.Ctx) string {
	if lang, ok := c.Locals(localsKey).(string); ok && lang != "" {
		return lang
	}
	return i18n.Fallback
}
