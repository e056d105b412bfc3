package ws

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxMessage = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Request is a client frame. Only "ping" is understood.
type Request struct {
	Type string `json:"type"`
}

// Handler serves the event stream over websocket.
type Handler struct {
	hub    *Hub
	logger *zap.Logger
}

// NewHandler creates a stream handler over hub
func NewHandler(hub *Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{hub: hub, logger: logger.Named("stream")}
}

// HandleConnection upgrades the request and streams kernel events until
// the client disconnects or the hub closes.
func (h *Handler) HandleConnection(c *gin.Context) {
	id, events, ok := h.hub.Subscribe()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "event stream closed",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.Unsubscribe(id)
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	defer h.hub.Unsubscribe(id)

	log := h.logger.With(zap.String("subscriber", id.String()))
	log.Debug("Stream subscriber connected")

	replies := make(chan Message, 8)
	done := make(chan struct{})
	go h.readLoop(conn, replies, done, log)

	welcome := systemMessage("Connected to nucleus event stream")
	welcome.ID = id.String()
	if err := send(conn, welcome); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, open := <-events:
			if !open {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				log.Debug("Stream closed by hub")
				return
			}
			if err := send(conn, msg); err != nil {
				return
			}
		case msg := <-replies:
			if err := send(conn, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-done:
			log.Debug("Stream subscriber disconnected")
			return
		}
	}
}

// readLoop answers client frames. Writes go through replies so that the
// connection keeps a single writer.
func (h *Handler) readLoop(conn *websocket.Conn, replies chan<- Message, done chan<- struct{}, log *zap.Logger) {
	defer close(done)

	conn.SetReadLimit(maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("Stream read failed", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var req Request
		if err := sonic.Unmarshal(data, &req); err != nil {
			reply(replies, errorMessage("invalid message format"))
			continue
		}

		switch req.Type {
		case "ping":
			reply(replies, Message{Type: TypePong, Time: time.Now().UnixMilli()})
		default:
			reply(replies, errorMessage("unknown message type: "+req.Type))
		}
	}
}

// reply drops the message if the writer is not keeping up.
func reply(replies chan<- Message, msg Message) {
	select {
	case replies <- msg:
	default:
	}
}

func send(conn *websocket.Conn, msg Message) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func errorMessage(text string) Message {
	return Message{Type: TypeError, Message: text, Time: time.Now().UnixMilli()}
}
