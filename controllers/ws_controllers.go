package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/kenylson23/lastortillas-backend/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler -> push channel. Any viewer (customer tracking page, kitchen
// display, admin dashboard) may connect; events only trigger re-fetches, so
// no auth is needed here.
func WSHandler(c *gin.Context) {
	viewer := c.Query("viewer")
	if viewer == "" {
		viewer = "customer"
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	realtime.RegisterClient(ws, viewer)
	defer realtime.UnregisterClient(ws)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
