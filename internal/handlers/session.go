package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// HeaderSessionID carries the interview session id between requests.
const HeaderSessionID = "X-User-Session-Id"

// sessionIDFrom returns the session header as an owned string. fiber hands
// out header values backed by pooled request buffers, and the id outlives
// the request as a store and lock key.
func sessionIDFrom(c *fiber.Ctx) string {
	return utils.CopyString(c.Get(HeaderSessionID))
}
