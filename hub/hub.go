package hub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Hub maintains the set of connected boards and broadcasts game updates to
// them.
type Hub struct {
	// Registered connections.
	connections map[uint64]*connection

	// Messages to send to everyone.
	broadcast chan []byte

	// Register requests from the connections.
	register chan *connection

	// Unregister requests from connections.
	unregister chan *connection

	// Asks for the number of open connections.
	count chan chan int

	done chan struct{}

	nextID uint64
}

// New creates a new Hub and starts it in a background Go routine.
func New() *Hub {
	h := &Hub{
		broadcast:   make(chan []byte),
		register:    make(chan *connection),
		unregister:  make(chan *connection),
		count:       make(chan chan int),
		done:        make(chan struct{}),
		connections: make(map[uint64]*connection),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.connections[c.id] = c
		case c := <-h.unregister:
			h.deleteConn(c)
		case msg := <-h.broadcast:
			for _, c := range h.connections {
				select {
				case c.send <- msg:
				default:
					h.deleteConn(c)
				}
			}
		case resp := <-h.count:
			resp <- len(h.connections)
		case <-h.done:
			for _, c := range h.connections {
				h.deleteConn(c)
			}
			return
		}
	}
}

func (h *Hub) deleteConn(c *connection) {
	if _, ok := h.connections[c.id]; !ok {
		return
	}
	close(c.send)
	delete(h.connections, c.id)
}

// Broadcast sends a message to every connected board.
func (h *Hub) Broadcast(msg interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(msg); err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	select {
	case h.broadcast <- buf.Bytes():
	case <-h.done:
	}
	return nil
}

// Connections returns the number of registered connections.
func (h *Hub) Connections() int {
	resp := make(chan int, 1)
	select {
	case h.count <- resp:
		return <-resp
	case <-h.done:
		return 0
	}
}

// Close disconnects everyone and stops the hub.
func (h *Hub) Close() {
	close(h.done)
}

// Register associates a connection with the hub. If initial is non-nil, it's
// sent to the new connection before any broadcasts.
func (h *Hub) Register(ws *websocket.Conn, initial interface{}) error {
	conn := &connection{
		id:   atomic.AddUint64(&h.nextID, 1),
		h:    h,
		send: make(chan []byte, 256),
		ws:   ws,
	}
	if initial != nil {
		dat, err := json.Marshal(initial)
		if err != nil {
			return fmt.Errorf("failed to encode initial message: %w", err)
		}
		conn.send <- dat
	}

	select {
	case h.register <- conn:
	case <-h.done:
		return ws.Close()
	}
	go conn.writePump()
	go conn.readPump()
	return nil
}

// connection is a middleman between a websocket connection and the hub.
type connection struct {
	id   uint64
	h    *Hub
	ws   *websocket.Conn
	send chan []byte
}

// readPump only exists to notice when the browser goes away, boards don't
// send us anything.
func (c *connection) readPump() {
	defer func() {
		select {
		case c.h.unregister <- c:
		case <-c.h.done:
		}
		c.ws.Close()
	}()

	c.ws.SetReadLimit(512)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Uint64("conn", c.id).Msg("websocket closed unexpectedly")
			}
			return
		}
	}
}

func (c *connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
