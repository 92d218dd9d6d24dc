package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"portfolio/site/internal/hub"

	"github.com/gin-gonic/gin"
)

// KeepAliveInterval is how often an idle event stream sends a ping event.
var KeepAliveInterval = 30 * time.Second

// StreamEvents godoc
// @Summary      Stream content changes
// @Description  Server-sent events for project and technology changes. Each "message" event carries a JSON hub event. Topics are "projects", "technologies" and "all".
// @Tags         events
// @Produce      text/event-stream
// @Param        topic path string true "Topic" Enums(projects, technologies, all)
// @Success      200  {string}  string  "event stream"
// @Failure      404  {object}  ErrorResponse "Unknown topic"
// @Router       /events/{topic} [get]
func StreamEvents(c *gin.Context) {
	topic := c.Param("topic")
	if !hub.KnownTopic(topic) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown topic"})
		return
	}

	client := hub.NewClient()
	hub.GlobalHub.Subscribe(topic, client)
	defer hub.GlobalHub.Unsubscribe(topic, client)
	slog.Debug("event stream opened", "topic", topic)

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(KeepAliveInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-ctx.Done():
			return false
		}
	})
	slog.Debug("event stream closed", "topic", topic)
}
