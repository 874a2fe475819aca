package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/kenylson23/lastortillas-backend/models"
)

// Event types. Viewers use them to decide which state to re-fetch; the
// payload is advisory, the GET endpoints stay authoritative.
const (
	EventOrders      = "orders"
	EventOrderStatus = "order-status"
	EventTables      = "tables"
)

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub holds every connected viewer (customer tracking page, kitchen display,
// admin dashboard). Push is an optimization: a viewer that never connects
// still converges through polling.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> viewer kind
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

func RegisterClient(conn *websocket.Conn, viewer string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = viewer
}

func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// ClientCount is used by tests and the health endpoint.
func ClientCount() int {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	return len(hub.clients)
}

// BroadcastOrders signals that the order list changed (creation, deletion).
func BroadcastOrders(order models.Order) {
	broadcast(Message{Type: EventOrders, Data: order})
}

// BroadcastOrderStatus signals a status transition on one order.
func BroadcastOrderStatus(order models.Order) {
	broadcast(Message{Type: EventOrderStatus, Data: order})
}

// BroadcastTables signals that a location's table list changed.
func BroadcastTables(table models.Table) {
	broadcast(Message{Type: EventTables, Data: table})
}

func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn, viewer := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending to %s client, dropping: %v", viewer, err)
			delete(hub.clients, conn)
			conn.Close()
		}
	}
}
