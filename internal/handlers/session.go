package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-maker/internal/services"
)

const (
	SessionCookie = "resume_session"
	SessionHeader = "X-Session-ID"

	sessionLocal = "session"
)

// SessionMiddleware attaches the caller's session to the request, creating
// one when the cookie or header is missing or stale.
func SessionMiddleware(store *services.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(SessionCookie)
		if id == "" {
			id = c.Get(SessionHeader)
		}

		session := store.GetOrCreate(id)
		if session.ID != id {
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    session.ID,
				Path:     "/",
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		c.Set(SessionHeader, session.ID)
		c.Locals(sessionLocal, session)

		return c.Next()
	}
}

func currentSession(c *fiber.Ctx) *services.Session {
	session, _ := c.Locals(sessionLocal).(*services.Session)
	return session
}
