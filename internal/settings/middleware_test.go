package settings

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/internal/auth"
	"roomdesk/internal/common/locale"
	"roomdesk/internal/i18n"
)

func TestPreferredLocale(t *testing.T) {
	bundle, err := i18n.Load()
	require.NoError(t, err)

	svc := NewService(NewMemoryRepository(), "en")
	vi := "vi"
	_, err = svc.UpdatePreferences(context.Background(), "an@example.com", &UpdatePreferencesDTO{Language: &vi})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(locale.Middleware(bundle, "en"))
	app.Use(func(c *fiber.Ctx) error {
		if user := c.Get("X-Test-User"); user != "" {
			c.Locals(auth.SessionLocal, &auth.Session{Username: user})
		}
		return c.Next()
	})
	app.Use(PreferredLocale(svc))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(locale.From(c))
	})

	tests := []struct {
		name   string
		user   string
		header string
		query  string
		want   string
	}{
		{name: "saved choice beats header", user: "an@example.com", header: "en-US", want: "vi"},
		{name: "query beats saved choice", user: "an@example.com", query: "?lang=en", want: "en"},
		{name: "nothing saved keeps header", user: "binh@example.com", header: "vi-VN", want: "vi"},
		{name: "anonymous keeps header", header: "en", want: "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/"+tt.query, nil)
			req.Header.Set("Accept-Language", tt.header)
			if tt.user != "" {
				req.Header.Set("X-Test-User", tt.user)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.want, string(body))
		})
	}
}
