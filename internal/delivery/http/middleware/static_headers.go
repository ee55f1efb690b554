package middleware

import "github.com/gofiber/fiber/v3"

// StaticFileHeaders keeps browsers from sniffing or scripting publicly
// served uploads.
func StaticFileHeaders() fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderContentSecurityPolicy, "default-src 'none'; sandbox")
		return c.Next()
	}
}
