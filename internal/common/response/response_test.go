package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomdesk/internal/notify"
	"roomdesk/pkg/client"
	apperrors "roomdesk/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusFor(&client.APIError{Status: 409}))
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperrors.New(apperrors.CodeValidation, "x")))
	assert.Equal(t, http.StatusForbidden, StatusFor(apperrors.New(apperrors.CodeForbidden, "x")))
	assert.Equal(t, http.StatusBadGateway, StatusFor(errors.New("dial tcp")))
}

func TestFailureBody(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		err := &client.APIError{Status: 400, Message: "invalid", Details: []string{"title: required"}}
		return Failure(c, err, notify.Toast{Level: notify.LevelError, Key: "validation.failed", Message: "check fields"})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "check fields", body["error"])
	assert.Equal(t, "validation.failed", body["code"])
	assert.Equal(t, []any{"title: required"}, body["errors"])
}
