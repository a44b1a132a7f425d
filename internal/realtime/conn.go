package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrSlowClient = errors.New("client send buffer full")

type wsConn struct {
	ws   *websocket.Conn
	send chan Event
	done chan struct{}
	once sync.Once
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{
		ws:   ws,
		send: make(chan Event, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *wsConn) Send(ev Event) error {
	select {
	case <-c.done:
		return websocket.ErrCloseSent
	default:
	}

	select {
	case c.send <- ev:
		return nil
	default:
		return ErrSlowClient
	}
}

func (c *wsConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

// readPump drains client frames so pongs and close frames are processed.
// Clients have nothing to say over this socket.
func (c *wsConn) readPump() {
	defer func() {
		c.Close()
		c.ws.Close()
	}()

	c.ws.SetReadLimit(4096)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case ev := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(ev); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}
