package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections for live sessions: one coach observer
// and one trainee per session.
type Hub struct {
	coachConns   map[string]*Connection // sessionID -> coach conn
	traineeConns map[string]*Connection // sessionID -> trainee conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage

	logger *zap.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string
	TraineeID string // Empty for coach connections
	IsCoach   bool
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to deliver within a session
type BroadcastMessage struct {
	SessionID string
	ToCoach   bool
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		coachConns:   make(map[string]*Connection),
		traineeConns: make(map[string]*Connection),
		register:     make(chan *Connection),
		unregister:   make(chan *Connection),
		broadcast:    make(chan *BroadcastMessage, 256),
		logger:       logger,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsCoach {
				h.coachConns[conn.SessionID] = conn
				h.logger.Info("coach observing session", zap.String("sessionId", conn.SessionID))
			} else {
				h.traineeConns[conn.SessionID] = conn
				h.logger.Info("trainee connected to session",
					zap.String("traineeId", conn.TraineeID),
					zap.String("sessionId", conn.SessionID))
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			conns := h.traineeConns
			if conn.IsCoach {
				conns = h.coachConns
			}
			if existing, ok := conns[conn.SessionID]; ok && existing == conn {
				delete(conns, conn.SessionID)
				close(conn.Send)
				h.logger.Info("connection closed", zap.String("sessionId", conn.SessionID), zap.Bool("coach", conn.IsCoach))
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			conns := h.traineeConns
			if msg.ToCoach {
				conns = h.coachConns
			}
			if conn, ok := conns[msg.SessionID]; ok {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToCoach sends a message to the session's coach observer
// (implements service.Broadcaster).
func (h *Hub) BroadcastToCoach(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		ToCoach:   true,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToTrainee sends a message to the session's trainee
// (implements service.Broadcaster).
func (h *Hub) BroadcastToTrainee(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		ToCoach:   false,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
