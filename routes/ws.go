package routes

import (
	"log"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production
	},
}

// event is pushed to connected admin pages whenever a write endpoint
// changes a product.
type event struct {
	Action string `json:"action"`
	ID     uint   `json:"id"`
}

// Feed fans product-change events out to connected websocket clients so
// open list views can refresh.
type Feed struct {
	clients   map[*websocket.Conn]bool
	broadcast chan event
	mutex     sync.Mutex
}

func newFeed() *Feed {
	f := &Feed{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan event, 100), // Buffered channel to prevent blocking
	}
	go f.run()
	return f
}

func (f *Feed) run() {
	for ev := range f.broadcast {
		f.mutex.Lock()
		for client := range f.clients {
			if err := client.WriteJSON(ev); err != nil {
				log.Printf("WebSocket write error: %v", err)
				client.Close()
				delete(f.clients, client)
			}
		}
		f.mutex.Unlock()
	}
}

// publish never blocks a request; events are dropped when the buffer is full.
func (f *Feed) publish(ev event) {
	select {
	case f.broadcast <- ev:
	default:
	}
}

func (f *Feed) handler() fiber.Handler {
	return adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("Error upgrading:", err)
			return
		}
		defer conn.Close()

		f.mutex.Lock()
		f.clients[conn] = true
		f.mutex.Unlock()
		log.Println("Client connected:", conn.RemoteAddr())

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("WebSocket read error: %v", err)
				}
				f.mutex.Lock()
				delete(f.clients, conn)
				f.mutex.Unlock()
				log.Println("Client disconnected:", conn.RemoteAddr())
				return
			}
		}
	})
}
