package handler

import (
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// sendDownload streams an authorized file as an attachment. Browsers must
// neither sniff nor render it inline.
func sendDownload(c fiber.Ctx, d usecase.Download) error {
	c.Attachment(d.Name)
	c.Set(fiber.HeaderContentType, d.ContentType)
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderContentSecurityPolicy, "default-src 'none'; sandbox")
	c.Set(fiber.HeaderCacheControl, "private, no-store")
	return c.SendStream(d.Content)
}
