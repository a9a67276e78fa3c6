// Package ws menyiarkan perubahan order dan pembayaran ke semua client yang
// terhubung (customer menunggu konfirmasi, console dapur). Ini primitive
// onOrdersChanged: konsistensi eventual sub-beberapa-detik, bukan real-time
// ketat.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

// Jenis event
const (
	EventOrderUpdate    = "order_update"
	EventPaymentUpdate  = "payment_update"
	EventPaymentSuccess = "payment_success"
	EventQrisExpired    = "qris_expired"
	EventStaffNotif     = "staff_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung koneksi client beserta perannya (customer/staff).
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]string
}

var hub = Hub{clients: make(map[*websocket.Conn]string)}

func RegisterClient(conn *websocket.Conn, role string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.clients[conn] = role
}

func UnregisterClient(conn *websocket.Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderUpdate menyiarkan state order terbaru.
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{Event: EventOrderUpdate, Data: order})
}

// BroadcastPaymentUpdate menyiarkan perubahan metode/status pembayaran.
func BroadcastPaymentUpdate(order models.Order) {
	broadcast(Message{Event: EventPaymentUpdate, Data: order})
}

// BroadcastPaymentSuccess menyiarkan konfirmasi pembayaran satu kali.
func BroadcastPaymentSuccess(order models.Order) {
	broadcast(Message{Event: EventPaymentSuccess, Data: order})
}

// BroadcastQrisExpired memberi tahu view customer bahwa countdown QRIS
// habis. Hanya menyentuh state tampilan, bukan record pembayaran.
func BroadcastQrisExpired(orderID string) {
	broadcast(Message{Event: EventQrisExpired, Data: map[string]string{"order_id": orderID}})
}

// BroadcastStaffNotification mengirim notifikasi bebas untuk staff.
func BroadcastStaffNotification(text string) {
	broadcast(Message{Event: EventStaffNotif, Data: text})
}

func broadcast(msg Message) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("marshal pesan ws: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("kirim pesan ws: %v", err)
		}
	}
}
