package handlers

import (
	"net/http"
	"time"

	"sailsmart/models"

	"github.com/gin-gonic/gin"
)

// CookieSettings controls the attributes of the onboarding session cookies.
type CookieSettings struct {
	Secure bool
	Domain string
}

func (s CookieSettings) set(c *gin.Context, kind models.SessionKind, sessionID string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(kind.CookieName(), sessionID, int(ttl.Seconds()), "/", s.Domain, s.Secure, true)
}

func (s CookieSettings) clear(c *gin.Context, kind models.SessionKind) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(kind.CookieName(), "", -1, "/", s.Domain, s.Secure, true)
}

func sessionCookie(c *gin.Context, kind models.SessionKind) string {
	v, err := c.Cookie(kind.CookieName())
	if err != nil {
		return ""
	}
	return v
}

// sessionCookies collects every onboarding cookie the request carries.
func sessionCookies(c *gin.Context) map[models.SessionKind]string {
	out := map[models.SessionKind]string{}
	for _, kind := range models.SessionKinds {
		if v := sessionCookie(c, kind); v != "" {
			out[kind] = v
		}
	}
	return out
}
