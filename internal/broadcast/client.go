package broadcast

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/logger"
	"github.com/upravnik/assembly-engine/internal/tally"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the building portal's own origin; the
	// tally stream carries no secrets beyond what the REST API already serves
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one websocket subscriber of an assembly's tally stream
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	assemblyID uint64
	send       chan []byte
}

// ItemLister provides the open items needed for the join-time snapshot
type ItemLister interface {
	OpenItemIDs(ctx context.Context, assemblyID uint64) ([]uint64, error)
}

// ServeWS upgrades an HTTP request to a websocket subscription. The client
// first receives one snapshot event per currently open item, then live
// updates; events carry versions, so a snapshot arriving after a newer live
// update is simply discarded by the consumer.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, assemblyID uint64, items ItemLister, engine tally.Engine, now time.Time) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:        h,
		conn:       conn,
		assemblyID: assemblyID,
		send:       make(chan []byte, sendBufferSize),
	}

	h.register(client)

	if err := client.sendInitialSnapshots(r.Context(), items, engine, now); err != nil {
		logger.Error(err, zap.Uint64("assemblyID", assemblyID))
	}

	go client.writePump()
	go client.readPump()

	return nil
}

// sendInitialSnapshots queues the current tally of every open item
func (c *Client) sendInitialSnapshots(ctx context.Context, items ItemLister, engine tally.Engine, now time.Time) error {
	itemIDs, err := items.OpenItemIDs(ctx, c.assemblyID)
	if err != nil {
		return err
	}

	for _, itemID := range itemIDs {
		snap, err := engine.Snapshot(ctx, itemID)
		if err != nil {
			logger.Error(err, zap.Uint64("itemID", itemID))
			continue
		}

		event := &domain.TallyEvent{
			EventID:    domain.NewEventID(now),
			AssemblyID: c.assemblyID,
			Snapshot:   *snap,
		}

		data, err := c.hub.json.Marshal(event)
		if err != nil {
			return err
		}

		select {
		case c.send <- data:
		default:
			// The buffer is empty at join time; hitting this means the
			// assembly has more open items than the buffer holds
			return nil
		}
	}

	return nil
}

// readPump discards inbound frames and keeps the pong deadline fresh.
// Subscribers are read-only; the write path is the REST API.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}

// writePump forwards queued events and pings the peer on an interval
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
