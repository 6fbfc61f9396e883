package kds

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tavolo-pos/backend/models"
)

// Event types pushed to kitchen displays and waiter stations.
const (
	EventOrderCreated = "order_created"
	EventItemUpdate   = "item_update"
	EventStaffNotif   = "staff_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected display (chef, waiter, admin) keyed by role.
type Hub struct {
	clients map[*websocket.Conn]string
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderCreated pushes a freshly submitted order with its items.
func BroadcastOrderCreated(order *models.Order) {
	broadcast(Message{Event: EventOrderCreated, Data: order})
}

// BroadcastItemUpdate pushes items whose status or shape changed.
func BroadcastItemUpdate(items []models.OrderItem) {
	broadcast(Message{Event: EventItemUpdate, Data: items})
}

// BroadcastStaffNotification pushes a plain text notice to staff displays.
func BroadcastStaffNotification(text string) {
	broadcast(Message{Event: EventStaffNotif, Data: text})
}

func broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("kds: marshal %s event: %v", msg.Event, err)
		return
	}

	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("kds: write failed, dropping client: %v", err)
			conn.Close()
			delete(hub.clients, conn)
		}
	}
}
