package common

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Render writes template name with the session's flash messages and CSRF
// token added to data.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["flashes"] = Flashes(c)
	data["csrfToken"] = CSRFToken(c)
	c.HTML(status, name, data)
}

func NotFound(c *gin.Context, message string) {
	c.HTML(http.StatusNotFound, "error.html", gin.H{
		"title": "Not Found",
		"error": message,
	})
}

// ServerError logs err against the request and renders the generic 500 page.
func ServerError(c *gin.Context, err error) {
	_ = c.Error(err)
	log.Error().
		Err(err).
		Str("request_id", c.GetString(RequestIDKey)).
		Str("path", c.Request.URL.Path).
		Msg("request failed")
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"title": "Server Error",
		"error": "Something went wrong on our side. Please try again later.",
	})
}

// ParsePostID parses a post id taken from the path or query string.
func ParsePostID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
