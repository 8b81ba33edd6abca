package ws

import (
	"encoding/json"

	"crax/internal/env"
	"crax/internal/models"

	githubws "github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"
)

// Upgrader upgrades HTTP connections to WebSocket connections.
var Upgrader = githubws.FastHTTPUpgrader{
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
		// In drain mode, reject new WebSocket connections with 503
		if env.DRAIN_MODE {
			ctx.SetStatusCode(503)
			ctx.SetBodyString(`{"error": "Service is draining - please reconnect to active instance"}`)
			return false
		}
		return true
	},
}

// WriteStatus sends a status message to the websocket client.
func WriteStatus(conn *githubws.Conn, status string, message string) error {
	payload, err := json.Marshal(map[string]string{
		"type":    status,
		"message": message,
	})
	if err != nil {
		return err
	}
	return conn.WriteMessage(githubws.TextMessage, payload)
}

// WriteEvent sends one audit event to the websocket client.
func WriteEvent(conn *githubws.Conn, evt models.Event) error {
	payload, err := json.Marshal(map[string]any{
		"type":  "event",
		"event": evt,
	})
	if err != nil {
		return err
	}
	return conn.WriteMessage(githubws.TextMessage, payload)
}
