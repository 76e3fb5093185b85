package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"

	"github.com/blocksocial/api/internal/pkg/log"
	"github.com/blocksocial/api/internal/types"
)

// ContextKeyRequestID is the key used to store the request ID in Fiber locals.
const ContextKeyRequestID = "request_id"

// New creates a middleware that generates or propagates an X-Request-ID
// header and threads it into the request's user context so service-layer
// logs correlate with the HTTP request.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(types.HeaderRequestID)
		if requestID == "" {
			id, err := uuid.NewV4()
			if err == nil {
				requestID = id.String()
			}
		}

		c.Locals(ContextKeyRequestID, requestID)
		c.SetUserContext(log.WithRequestID(c.UserContext(), requestID))
		c.Set(types.HeaderRequestID, requestID)

		return c.Next()
	}
}

// GetRequestID retrieves the request ID from Fiber context
func GetRequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}
