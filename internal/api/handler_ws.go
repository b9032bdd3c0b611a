package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"presentoir-backend/internal/mw"
)

// ServeWS streams the organization's stand events over a websocket.
func (h *Handler) ServeWS(c *gin.Context) {
	if h.hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "realtime feed is disabled"})
		return
	}
	h.hub.ServeWS(c.Writer, c.Request, mw.CurrentOrganization(c).ID)
}
