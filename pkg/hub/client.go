package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Dashboard clients only send control frames.
	maxMessageSize = 4 * 1024
)

// Client is one websocket connection attached to a hub. Only its write
// loop writes to conn.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// NewClient registers a connection with the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan Message, 64),
	}
	select {
	case hub.register <- client:
	case <-hub.quit:
		close(client.send)
	}
	return client
}

// Run serves the connection until it closes and blocks meanwhile. backlog
// is written before any broadcast, under the same write deadline.
func (c *Client) Run(backlog ...Message) {
	go c.writeLoop(backlog)
	c.readLoop()
	c.leave()
}

func (c *Client) leave() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.quit:
	}
	c.conn.Close()
}

// readLoop discards client frames; its job is noticing pongs and hangups.
func (c *Client) readLoop() {
	c.conn.SetReadLimit(maxMessageSize)
	alive := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
	alive("")
	c.conn.SetPongHandler(alive)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writeLoop(backlog []Message) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.conn.Close()

	for _, m := range backlog {
		if c.write(m) != nil {
			return
		}
	}

	for {
		var m Message
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.write(closeFrame)
				return
			}
			m = msg
		case <-ticker.C:
			m = pingFrame
		}
		if c.write(m) != nil {
			return
		}
	}
}

func (c *Client) write(m Message) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(m.frameType(), m.Data)
}
