package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/IzzulGod/dynamenu-ai/utils"
	"github.com/IzzulGod/dynamenu-ai/ws"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OrdersStream -> websocket perubahan order/pembayaran (onOrdersChanged).
// Customer dan console dapur sama-sama mendengarkan di sini.
func OrdersStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("upgrade websocket: %v", err)
		return
	}

	role := c.Query("role")
	if role == "" {
		role = "customer"
	}
	ws.RegisterClient(conn, role)

	go func() {
		defer ws.UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
