package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"

	"courtside_server/models"
)

// NewSocketServer initializes and returns a new Socket.IO server.
// Each client joins a room named after its user id so committed
// notifications can be pushed to exactly that user.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	// Handle join events
	server.OnEvent("/", "join", func(c socketio.Conn, userID string) {
		if userID == "" {
			log.Println("❌ Invalid userId in join request")
			return
		}
		log.Printf("👥 Socket %s joined room for user %s\n", c.ID(), userID)
		c.Join(userID)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return server
}

// Pusher delivers committed notifications to the owner's room.
type Pusher struct {
	Server *socketio.Server
}

func NewPusher(server *socketio.Server) *Pusher {
	return &Pusher{Server: server}
}

func (p *Pusher) Notify(n models.Notification) {
	p.Server.BroadcastToRoom("/", n.UserID, "notification", n)
}
