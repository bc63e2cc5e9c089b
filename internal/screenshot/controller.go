package screenshot

import (
	"context"
	"errors"
	"strings"

	"github.com/creatorstation/urlshot/internal/config"
	"github.com/creatorstation/urlshot/internal/pipeline"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// Resolver turns a URL into the fingerprint of its thumbnails.
type Resolver interface {
	Resolve(ctx context.Context, url, size string) (string, error)
}

type controller struct {
	resolver Resolver
	cfg      *config.Config
}

// MountController installs CORS, optional static image serving and the
// screenshot route on router.
func MountController(router fiber.Router, resolver Resolver, cfg *config.Config) {
	ctl := &controller{resolver: resolver, cfg: cfg}

	if cfg.CORS.Enabled() {
		router.Use(corsMiddleware(cfg.CORS))
	}
	if cfg.ServeImgs {
		router.Static("/imgs", cfg.ImgPath)
	}

	router.Get("/", KeyGate(cfg), ctl.GetScreenshot)
}

func corsMiddleware(c config.CORS) fiber.Handler {
	if c.All {
		return cors.New()
	}
	return cors.New(cors.Config{
		AllowOrigins: strings.Join(c.Origins, ","),
	})
}

// KeyGate rejects requests without the configured API key. When CORS is on,
// requests that look like they come from a browser on an allowed origin are
// let through, since a key embedded in client-side code would be public
// anyway.
func KeyGate(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.CORS.Allows(c.Get(fiber.HeaderOrigin)) && looksLikeBrowser(c) {
			return c.Next()
		}
		if cfg.Key != "" && c.Query("key") != cfg.Key {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "denied",
			})
		}
		return c.Next()
	}
}

// RequireKey rejects every request without the key, browser or not.
func RequireKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key == "" || c.Query("key") != key {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "denied",
			})
		}
		return c.Next()
	}
}

// NotFound answers every request no route matched.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).SendString("404 Not Found")
}

func (ctl *controller) GetScreenshot(c *fiber.Ctx) error {
	q := Query{
		URL:  c.Query("url"),
		Size: c.Query("size"),
	}

	if err := q.Validate(ctl.cfg.SizeNames()); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": problem(err),
		})
	}

	fp, err := ctl.resolver.Resolve(c.UserContext(), q.URL, q.Size)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnknownSize) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "bad size",
			})
		}

		log.Errorf("screenshot %s: %v", q.URL, err)

		var perr *pipeline.Error
		if errors.As(err, &perr) && perr.Stage == pipeline.StageLookup {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "db error",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "processing error",
		})
	}

	return c.JSON(fiber.Map{
		"img": imageLocation(c, ctl.cfg.ServeImgs, fp, q.Size),
	})
}
