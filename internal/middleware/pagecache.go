package middleware

import (
	"context"
	"log/slog"

	"inkwell/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// HeaderPageCache reports whether a response came from the page cache.
const HeaderPageCache = "X-Page-Cache"

// PageStore is the backing store for CachePage.
type PageStore interface {
	Enabled() bool
	Key(path, query string) string
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte) error
}

// CachePage serves GET responses from store and stores successful ones on a miss.
// Store errors fall through to the handler.
func CachePage(store PageStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet || store == nil || !store.Enabled() {
			return c.Next()
		}

		ctx := c.UserContext()
		key := store.Key(c.Path(), string(c.Request().URI().QueryString()))

		body, ok, err := store.Get(ctx, key)
		switch {
		case err != nil:
			observability.PageCacheLookups.WithLabelValues("error").Inc()
			Logger.WarnContext(ctx, "page cache lookup failed", slog.String("key", key), slog.String("error", err.Error()))
			return c.Next()
		case ok:
			observability.PageCacheLookups.WithLabelValues("hit").Inc()
			c.Set(HeaderPageCache, "HIT")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return c.Send(body)
		}

		observability.PageCacheLookups.WithLabelValues("miss").Inc()
		if err := c.Next(); err != nil {
			return err
		}
		c.Set(HeaderPageCache, "MISS")

		if c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}
		fresh := append([]byte(nil), c.Response().Body()...)
		if err := store.Set(ctx, key, fresh); err != nil {
			Logger.WarnContext(ctx, "page cache store failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return nil
	}
}
