package hub

import (
	"encoding/json"

	"github.com/gorilla/websocket"

	"restoran-pos/utils"
)

// Tipe client yang dikenal; selain kitchen/admin dianggap customer.
const (
	RoleCustomer = "customer"
	RoleKitchen  = "kitchen"
	RoleAdmin    = "admin"
)

// Nama event yang dikirim ke client
const (
	EventOrderCreated = "order_created"
	EventOrderUpdated = "order_updated"
	EventStockWarning = "stock_warning"
	EventTableStatus  = "table_status"
	EventWaiterCall   = "waiter_call"
	EventBillRequest  = "bill_request"
)

// Message -> frame yang dikirim ke client websocket
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

type audience int

const (
	audienceAll audience = iota
	audienceKitchen
	audienceAdmin
)

// sendBuffer: client yang buffernya penuh dianggap mati dan di-unregister.
const sendBuffer = 32

// Client membungkus satu koneksi websocket. Frame keluar lewat channel send
// dan ditulis oleh satu goroutine WritePump, jadi urutan per koneksi terjaga
// dan broadcast tidak pernah menunggu I/O.
type Client struct {
	conn *websocket.Conn
	role string
	send chan []byte
}

func NewClient(conn *websocket.Conn, role string) *Client {
	if role != RoleKitchen && role != RoleAdmin {
		role = RoleCustomer
	}
	return &Client{
		conn: conn,
		role: role,
		send: make(chan []byte, sendBuffer),
	}
}

func (c *Client) Role() string { return c.role }

// WritePump -> tulis frame dari channel send sampai channel ditutup hub
// atau koneksi error. Dipanggil sebagai goroutine oleh handler websocket.
func (c *Client) WritePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			utils.ErrorLogger.Printf("ws write to %s client failed: %v", c.role, err)
			return
		}
	}
}

type broadcastReq struct {
	audience audience
	payload  []byte
}

// Hub menampung registry koneksi aktif terpartisi per role (all/kitchen/
// admin). Semua mutasi registry dan fan-out berjalan di satu goroutine Run,
// register/unregister/broadcast masuk sebagai pesan lewat channel.
type Hub struct {
	clients map[*Client]bool
	kitchen map[*Client]bool
	admin   map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastReq
}

func New() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		kitchen:    make(map[*Client]bool),
		admin:      make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastReq, 64),
	}
}

// Run -> loop pemilik registry; jalankan sebagai goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			switch c.role {
			case RoleKitchen:
				h.kitchen[c] = true
			case RoleAdmin:
				h.admin[c] = true
			}
			utils.InfoLogger.Printf("WS connected: %s (%d active)", c.role, len(h.clients))
		case c := <-h.unregister:
			h.drop(c)
		case req := <-h.broadcast:
			var targets map[*Client]bool
			switch req.audience {
			case audienceKitchen:
				targets = h.kitchen
			case audienceAdmin:
				targets = h.admin
			default:
				targets = h.clients
			}
			for c := range targets {
				select {
				case c.send <- req.payload:
				default:
					// Buffer penuh berarti client macet; lepaskan supaya
					// client lain tetap terlayani.
					h.drop(c)
				}
			}
		}
	}
}

// drop hanya boleh dipanggil dari goroutine Run.
func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	delete(h.kitchen, c)
	delete(h.admin, c)
	close(c.send)
	utils.InfoLogger.Printf("WS disconnected: %s (%d active)", c.role, len(h.clients))
}

// Register -> tambahkan koneksi ke registry sesuai role-nya.
func (h *Hub) Register(c *Client) {
	if h == nil {
		return
	}
	h.register <- c
}

// Unregister -> lepaskan koneksi; idempotent, aman dipanggil dua kali.
func (h *Hub) Unregister(c *Client) {
	if h == nil {
		return
	}
	h.unregister <- c
}

func (h *Hub) send(a audience, msg Message) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("ws marshal failed: %v", err)
		return
	}
	h.broadcast <- broadcastReq{audience: a, payload: payload}
}

// BroadcastToAll -> jalur umum untuk echo status ke semua client.
func (h *Hub) BroadcastToAll(msg Message) {
	h.send(audienceAll, msg)
}

// BroadcastToKitchen -> hanya ke client dapur.
func (h *Hub) BroadcastToKitchen(msg Message) {
	h.send(audienceKitchen, msg)
}

// BroadcastToAdmin -> hanya ke client admin (stock warning, panggilan
// garson/hesap, status meja).
func (h *Hub) BroadcastToAdmin(msg Message) {
	h.send(audienceAdmin, msg)
}

// BroadcastOrderEvent -> order_created / order_updated untuk dapur dan
// admin, plus echo ke semua client. Setiap client menerima satu frame.
func (h *Hub) BroadcastOrderEvent(event string, data interface{}) {
	h.send(audienceAll, Message{Type: event, Data: data})
}
