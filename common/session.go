package common

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const SessionName = "inkwell-session"

// Sessions returns the cookie-backed session middleware keyed from secret.
func Sessions(secret string, secure bool) (gin.HandlerFunc, error) {
	authKey, encKey, err := SessionKeys(secret)
	if err != nil {
		return nil, err
	}

	store := cookie.NewStore(authKey, encKey)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(SessionName, store), nil
}

const flashKey = "flash"

// AddFlash queues a one-shot notice for the next rendered page.
func AddFlash(c *gin.Context, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, flashKey)
	if err := session.Save(); err != nil {
		log.Warn().Err(err).Msg("could not save flash message")
	}
}

// Flashes pops every queued notice.
func Flashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes(flashKey)
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		log.Warn().Err(err).Msg("could not clear flash messages")
	}

	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}
