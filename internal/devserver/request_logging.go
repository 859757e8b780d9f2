package devserver

import (
	"strings"
	"time"

	"fe/utils"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
)

const reqIDKey = "reqId"

// RequestLogger reuses the caller's X-Request-Id so client and server log
// lines can be matched.
func RequestLogger() fiber.Handler {
	base := log.With("component", "http")

	return func(c *fiber.Ctx) error {
		reqID := strings.TrimSpace(c.Get("X-Request-Id"))
		if reqID == "" || len(reqID) > 64 {
			reqID = utils.NewRequestID()
		}
		c.Locals(reqIDKey, reqID)
		c.Set("X-Request-Id", reqID)

		start := time.Now()
		method := c.Method()
		path := c.Path()

		err := c.Next()
		dur := time.Since(start)

		status := c.Response().StatusCode()
		switch {
		case err != nil:
			base.Error("request failed", "reqId", reqID, "method", method, "path", path, "dur", dur.String(), "err", err)
		case status >= fiber.StatusInternalServerError:
			base.Warn("request completed", "reqId", reqID, "method", method, "path", path, "status", status, "dur", dur.String())
		default:
			base.Debug("request completed", "reqId", reqID, "method", method, "path", path, "status", status, "dur", dur.String())
		}
		return err
	}
}

func ReqID(c *fiber.Ctx) string {
	if s, ok := c.Locals(reqIDKey).(string); ok {
		return s
	}
	return ""
}

func HttpLogger(action string, c *fiber.Ctx) *log.Logger {
	return log.With(
		"component", "devserver",
		"action", action,
		"reqId", ReqID(c),
	)
}
