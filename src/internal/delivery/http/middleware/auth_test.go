package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(token string) *fiber.App {
	v := viper.New()
	v.Set("web.admin_token", token)

	app := fiber.New()
	app.Use(VerifyOperator(v))
	app.Get("/secure", func(ctx *fiber.Ctx) error {
		return ctx.SendString("ok")
	})
	return app
}

func TestVerifyOperatorAdmitsConfiguredToken(t *testing.T) {
	app := newProtectedApp("s3cret")

	req := httptest.NewRequest(fiber.MethodGet, "/secure", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestVerifyOperatorRejectsBadCredentials(t *testing.T) {
	app := newProtectedApp("s3cret")

	cases := map[string]string{
		"missing header": "",
		"wrong token":    "Bearer nope",
		"no bearer":      "s3cret",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/secure", nil)
			if header != "" {
				req.Header.Set(fiber.HeaderAuthorization, header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestVerifyOperatorRejectsWhenTokenUnset(t *testing.T) {
	// an empty configured token locks the operator surface entirely
	app := newProtectedApp("")

	req := httptest.NewRequest(fiber.MethodGet, "/secure", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer ")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
