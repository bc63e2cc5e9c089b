package screenshot

import (
	"github.com/creatorstation/urlshot/internal/artifact"
	"github.com/gofiber/fiber/v2"
	"github.com/mssola/useragent"
)

// imageLocation returns where the client can fetch the image: a full URL when
// this process serves /imgs, otherwise just the file name for an external
// server to host.
func imageLocation(c *fiber.Ctx, serveImgs bool, fp, size string) string {
	name := artifact.Name(fp, size)
	if !serveImgs {
		return name
	}
	return c.Protocol() + "://" + c.Hostname() + "/imgs/" + name
}

// looksLikeBrowser is a heuristic: an Origin header plus a desktop or mobile
// user agent. It is trivially spoofed.
func looksLikeBrowser(c *fiber.Ctx) bool {
	if c.Get(fiber.HeaderOrigin) == "" {
		return false
	}

	ua := useragent.New(c.Get(fiber.HeaderUserAgent))
	if ua.Bot() {
		return false
	}
	if ua.Mobile() {
		return true
	}
	name, _ := ua.Browser()
	return name != "" && ua.OS() != ""
}
