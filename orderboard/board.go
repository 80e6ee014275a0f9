package orderboard

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"comanda/mq"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// WebSocketHandler attaches a staff dashboard to the hub. Role checks happen
// in the route middleware before the upgrade.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}

		client := &Client{Send: make(chan []byte, 256)}
		hub.Register(client)

		go writePump(conn, client)
		go readPump(conn, hub, client)
	}
}

func writePump(conn *websocket.Conn, c *Client) {
	defer conn.Close()
	for msg := range c.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// readPump only watches for the client going away; dashboards never send.
func readPump(conn *websocket.Conn, hub *Hub, c *Client) {
	defer func() {
		hub.Unregister(c)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// StartEventRelay subscribes to the order event stream and pushes every event
// to connected dashboards until ctx is cancelled.
func StartEventRelay(ctx context.Context, hub *Hub) {
	events, cancel := mq.Subscribe(ctx)
	defer cancel()

	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(evt)
			if err != nil {
				log.Println("relay marshal:", err)
				continue
			}
			hub.Broadcast(data)
		case <-ctx.Done():
			return
		}
	}
}
