package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/siagacall/relay/domain"
	"github.com/siagacall/relay/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks

	// Outbound frame buffer per connection.
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Peers connect from the dashboard and the mobile dialer; origin
		// enforcement belongs to the deployment in front of the relay.
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

var errConnectionClosed = errors.New("connection closed")

// Hub accepts peer connections, routes signaling messages between them, and
// hands audio chunks to the relay pipeline.
type Hub struct {
	registry *Registry
	relay    *usecase.RelayService

	// broadcast switches the signaling router from targeted delivery to
	// forward-to-all-others. Only valid for exactly-two-party topologies.
	broadcast bool

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(registry *Registry, relay *usecase.RelayService, broadcast bool, logger *zap.Logger) *Hub {
	return &Hub{
		registry:  registry,
		relay:     relay,
		broadcast: broadcast,
		logger:    logger,
	}
}

// CallInfo describes one open connection for the operations API
type CallInfo struct {
	ConnectionID string    `json:"connection_id"`
	OpenedAt     time.Time `json:"opened_at"`
	State        string    `json:"state"`
	Takeover     bool      `json:"takeover"`
}

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound frames.
	send chan []byte

	id       string
	openedAt time.Time

	// ctx is cancelled when the connection closes, cancelling in-flight
	// collaborator calls for this connection's chunks.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	takeover bool

	logger *zap.Logger
}

// HandleWebSocket upgrades the request and starts the connection's pumps
func (h *Hub) HandleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		openedAt: time.Now(),
		ctx:      ctx,
		cancel:   cancel,
	}

	id := h.registry.Register(client)
	client.logger = h.logger.With(zap.String("connectionID", id))
	client.logger.Info("Peer connected")

	// Tell the peer its id so it can be addressed as a signaling target.
	if frame, err := json.Marshal(domain.NewConnectedMessage(id)); err == nil {
		client.enqueue(frame)
	}

	go client.writePump()
	go client.readPump()

	return nil
}

// Close shuts down every live connection and clears the registry
func (h *Hub) Close() {
	for _, client := range h.registry.Snapshot() {
		deadline := time.Now().Add(writeWait)
		client.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), deadline)
		client.conn.Close()
	}
}

// ActiveCalls returns a snapshot of the open connections
func (h *Hub) ActiveCalls() []CallInfo {
	clients := h.registry.Snapshot()
	calls := make([]CallInfo, 0, len(clients))
	for _, client := range clients {
		calls = append(calls, CallInfo{
			ConnectionID: client.id,
			OpenedAt:     client.openedAt,
			State:        "open",
			Takeover:     client.Takeover(),
		})
	}
	return calls
}

// SetTakeover flags a call as taken over by a human operator. While set,
// inbound audio chunks bypass the AI pipeline. Returns false when the
// connection is not registered.
func (h *Hub) SetTakeover(connectionID string, takeover bool) bool {
	client, ok := h.registry.Lookup(connectionID)
	if !ok {
		return false
	}

	client.mu.Lock()
	client.takeover = takeover
	client.mu.Unlock()

	h.logger.Info("Takeover flag updated",
		zap.String("connectionID", connectionID),
		zap.Bool("takeover", takeover))
	return true
}

// routeSignal delivers one signaling message. The payload passes through
// untouched; only the from field is stamped with the origin id.
func (h *Hub) routeSignal(origin *Client, msg *domain.SignalingMessage) {
	msg.From = origin.id

	frame, err := json.Marshal(msg)
	if err != nil {
		origin.logger.Error("Failed to marshal signaling message", zap.Error(err))
		return
	}

	if h.broadcast {
		for _, peer := range h.registry.Snapshot() {
			if peer.id == origin.id {
				continue
			}
			if err := peer.enqueue(frame); err != nil {
				h.logger.Debug("Dropping signaling message",
					zap.String("target", peer.id),
					zap.Error(err))
			}
		}
		return
	}

	if msg.Target == "" {
		origin.logger.Warn("Dropping signaling message without target",
			zap.String("type", msg.Type))
		return
	}

	peer, ok := h.registry.Lookup(msg.Target)
	if !ok {
		// The target may have already disconnected; normal, not an error.
		origin.logger.Debug("Target connection gone, dropping signaling message",
			zap.String("type", msg.Type),
			zap.String("target", msg.Target))
		return
	}

	if err := peer.enqueue(frame); err != nil {
		origin.logger.Debug("Dropping signaling message",
			zap.String("target", msg.Target),
			zap.Error(err))
	}
}

// dropClient tears down a closed connection: registry entry, conversation
// state, and outbound channel.
func (h *Hub) dropClient(client *Client) {
	h.registry.Unregister(client.id)
	client.cancel()

	client.mu.Lock()
	if !client.closed {
		client.closed = true
		close(client.send)
	}
	client.mu.Unlock()

	h.relay.ForgetSession(client.id)
	client.logger.Info("Peer disconnected")
}

// Takeover reports whether a human operator has taken this call over
func (c *Client) Takeover() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.takeover
}

// SendFrame queues an outbound frame; it implements usecase.Sink. Sending to
// a closed connection is reported as an error so the pipeline can stop
// early, and is never fatal.
func (c *Client) SendFrame(frame []byte) error {
	return c.enqueue(frame)
}

func (c *Client) enqueue(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errConnectionClosed
	}

	select {
	case c.send <- frame:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// readPump pumps frames from the websocket connection into the router and
// the relay pipeline. Audio chunks are processed inline, so chunks from one
// connection run strictly in order while other connections progress on their
// own pumps.
func (c *Client) readPump() {
	defer func() {
		c.hub.dropClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}

		kind, msg := ClassifyFrame(frame)
		switch kind {
		case FrameSignaling:
			c.hub.routeSignal(c, msg)
		case FrameAudio:
			c.handleAudioChunk(frame)
		case FrameDiscard:
			c.logger.Warn("Dropping message with unrecognized type",
				zap.String("type", msg.Type))
		}
	}
}

// handleAudioChunk runs one chunk through the relay pipeline, unless a human
// operator has taken the call over.
func (c *Client) handleAudioChunk(data []byte) {
	if c.Takeover() {
		c.logger.Debug("Audio chunk suppressed, call taken over by operator",
			zap.Int("size", len(data)))
		return
	}

	c.hub.relay.ProcessChunk(c.ctx, c.id, data, c)
}

// writePump pumps frames from the send channel to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
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
