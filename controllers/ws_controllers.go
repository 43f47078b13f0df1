package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"restoran-pos/hub"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSController struct {
	Hub *hub.Hub
}

func NewWSController(h *hub.Hub) *WSController {
	return &WSController{Hub: h}
}

// registerFrame -> frame pertama dari client:
// {"type":"register","client_type":"customer"|"kitchen"|"admin"}
type registerFrame struct {
	Type       string `json:"type"`
	ClientType string `json:"client_type"`
}

// Handle -> endpoint WebSocket. Client mengirim satu frame registrasi
// untuk mendeklarasikan role-nya; frame hilang atau rusak berarti
// customer. Setelah itu koneksi hanya menerima push dari server, loop
// baca cuma menunggu disconnect.
func (wc *WSController) Handle(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	role := hub.RoleCustomer
	if _, raw, err := ws.ReadMessage(); err == nil {
		var frame registerFrame
		if jsonErr := json.Unmarshal(raw, &frame); jsonErr == nil && frame.Type == "register" {
			role = frame.ClientType
		}
	} else {
		ws.Close()
		return
	}

	client := hub.NewClient(ws, role)
	wc.Hub.Register(client)
	go client.WritePump()

	// Blokir sampai disconnect; tidak ada data aplikasi masuk lagi
	// lewat koneksi ini.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	wc.Hub.Unregister(client)
}
