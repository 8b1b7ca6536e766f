package common

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	CSRFFormField  = "csrf_token"
	CSRFHeader     = "X-CSRF-Token"
	csrfSessionKey = "csrf_token"
)

// CSRFToken returns the session's CSRF token, creating one on first use.
// Call it before writing the response body so the session cookie can be set.
func CSRFToken(c *gin.Context) string {
	session := sessions.Default(c)
	if token, ok := session.Get(csrfSessionKey).(string); ok && token != "" {
		return token
	}

	token, err := generateToken()
	if err != nil {
		log.Error().Err(err).Msg("could not generate csrf token")
		return ""
	}
	session.Set(csrfSessionKey, token)
	if err := session.Save(); err != nil {
		log.Error().Err(err).Msg("could not save csrf token")
	}
	return token
}

// CSRFProtect rejects state-changing requests whose token does not match the
// one stored in the session.
func CSRFProtect() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			c.Next()
			return
		}

		expected, _ := sessions.Default(c).Get(csrfSessionKey).(string)
		got := c.GetHeader(CSRFHeader)
		if got == "" {
			got = c.PostForm(CSRFFormField)
		}

		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
			log.Warn().
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("request_id", c.GetString(RequestIDKey)).
				Msg("csrf token mismatch")
			c.HTML(http.StatusForbidden, "error.html", gin.H{
				"title": "Forbidden",
				"error": "The form has expired or was not submitted from this site. Please go back and try again.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
