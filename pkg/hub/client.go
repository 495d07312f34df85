package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	// writeWait is how long to wait for a write to complete
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong response
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds what clients may send us
	maxMessageSize = 4 * 1024
)

// Conn is the part of a websocket connection the hub uses.
// *websocket.Conn from gofiber satisfies it.
type Conn interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client represents a single websocket connection
type Client struct {
	hub  *Hub
	conn Conn
	send chan []byte

	backlogFn func() [][]byte
	skip      func([]byte) bool
	backlog   [][]byte
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBacklog sets a function producing messages to write before any
// broadcast. It is called once, after the client is registered, so every
// broadcast sent after the snapshot reaches the client.
func WithBacklog(fn func() [][]byte) ClientOption {
	return func(c *Client) {
		c.backlogFn = fn
	}
}

// WithSkip drops broadcasts for which skip returns true. It runs on the
// write goroutine, after the backlog is taken.
func WithSkip(skip func([]byte) bool) ClientOption {
	return func(c *Client) {
		c.skip = skip
	}
}

// NewClient creates a new client and registers it with the hub.
// If the hub has stopped the client starts closed.
func NewClient(hub *Hub, conn Conn, opts ...ClientOption) *Client {
	client := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	for _, opt := range opts {
		opt(client)
	}
	select {
	case hub.register <- client:
		if client.backlogFn != nil {
			client.backlog = client.backlogFn()
		}
	case <-hub.done:
		close(client.send)
	}
	return client
}

// Run starts the client's read and write pumps.
// It blocks until the connection closes.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump detects disconnection and handles pongs
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Clients never send data; reading surfaces close frames
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump is the only goroutine that writes to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for _, data := range c.backlog {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if c.skip != nil && c.skip(data) {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
