package middleware

import "github.com/gofiber/fiber/v2"

// NoCache marks responses as non-cacheable. Searcher sessions are mutable
// server-side state, so intermediaries must not cache their responses.
func NoCache() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Next()
	}
}
