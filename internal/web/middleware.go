package web

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-novels/internal/sessions"
)

const (
	// HeaderSessionID carries the session token on authenticated requests.
	HeaderSessionID = "X-Session-ID"

	localsLocale   = "locale"
	localsIdentity = "identity"
	localsToken    = "session_token"
)

func (s *Server) negotiateLocale(c *fiber.Ctx) error {
	c.Locals(localsLocale, s.localizer.Negotiate(c.Get(fiber.HeaderAcceptLanguage)))
	return c.Next()
}

func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		// the app error handler has not run yet
		if ferr, ok := err.(*fiber.Error); ok {
			status = ferr.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}
	s.logger.Debug("http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration", time.Since(start),
	)
	return err
}

// requireSession resolves X-Session-ID into an identity or rejects with 401.
func (s *Server) requireSession(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Get(HeaderSessionID))
	identity, err := s.accounts.Current(c.UserContext(), token)
	if err != nil {
		return s.fail(c, err)
	}
	c.Locals(localsIdentity, identity)
	c.Locals(localsToken, token)
	return c.Next()
}

func identityOf(c *fiber.Ctx) sessions.Identity {
	identity, _ := c.Locals(localsIdentity).(sessions.Identity)
	return identity
}

func localeOf(c *fiber.Ctx) string {
	locale, _ := c.Locals(localsLocale).(string)
	return locale
}
