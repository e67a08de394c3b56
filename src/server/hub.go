package server

import (
	"net/http"

	"macro-observer/src/analysis"
	"macro-observer/src/loader"
	"macro-observer/src/models"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Messages
// -----------------------------------------------------------------------------

const (
	messageInitial = "INITIAL"
	messageUpdate  = "UPDATE"
	messageError   = "ERROR"
)

// dashboardMessage is pushed to websocket clients.
type dashboardMessage struct {
	Type   string                  `json:"type"`
	Status models.MLoadStatus      `json:"status"`
	View   *analysis.DashboardView `json:"view,omitempty"`
	Error  string                  `json:"error,omitempty"`
}

// directMessage targets a single client.
type directMessage struct {
	client *Client
	data   []byte
}

func (s *DashboardServer) encodeSnapshot(kind string, snap loader.Snapshot) ([]byte, error) {
	msg := dashboardMessage{Type: kind, Status: snap.Status, Error: snap.Status.Error}
	if snap.Loaded() {
		view := analysis.BuildDashboardView(snap.Store, snap.State, s.viewOpts)
		msg.View = &view
	}
	return json.Marshal(msg)
}

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// runHub is the main Hub loop
func (s *DashboardServer) runHub() {
	for {
		select {
		case <-s.done:
			for client := range s.clients {
				close(client.send)
				delete(s.clients, client)
			}
			s.setConnections(0)
			return

		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.setConnections(len(s.clients))
			// Send current state on connect
			if payload, err := s.encodeSnapshot(messageInitial, s.controller.Snapshot()); err == nil {
				client.send <- payload
			}

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
				s.setConnections(len(s.clients))
			}

		case d := <-s.direct:
			if _, ok := s.clients[d.client]; ok {
				select {
				case d.client.send <- d.data:
				default:
				}
			}

		case message := <-s.broadcast:
			for client := range s.clients {
				select {
				case client.send <- message:
				default:
					// Client too slow, disconnect to prevent Hub blocking
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.setConnections(len(s.clients))
		}
	}
}

func (s *DashboardServer) setConnections(n int) {
	s.connMutex.Lock()
	s.connections = n
	s.connMutex.Unlock()
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast queues payload for every client. Pre-encoded []byte is sent as is.
// It never blocks: when the queue is full the message is dropped.
func (s *DashboardServer) Broadcast(payload interface{}) {
	data, ok := payload.([]byte)
	if !ok {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			s.Logger.Error("Broadcast encode failed: %v", err)
			return
		}
	}
	select {
	case s.broadcast <- data:
	default:
		s.Logger.Warning("Broadcast queue full, dropping message")
	}
}

// onSnapshot is subscribed to the load controller.
func (s *DashboardServer) onSnapshot(snap loader.Snapshot) {
	payload, err := s.encodeSnapshot(messageUpdate, snap)
	if err != nil {
		s.Logger.Error("Snapshot encode failed: %v", err)
		return
	}
	s.Broadcast(payload)
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  s,
		conn: conn,
		send: make(chan []byte, 256),
	}
	s.Logger.Debug("Client %s connected from %s", client.id, c.ClientIP())

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage applies one command. Successful transitions reach every
// client through the controller subscription; failures are answered directly.
func (s *DashboardServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MClientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse command from client %s: %v, disconnecting client", client.id, err)
		client.conn.Close()
		return
	}

	var err error
	switch cmd.Command {
	case "sort":
		var field analysis.SortField
		if field, err = analysis.ParseSortField(cmd.Field); err == nil {
			_, err = s.controller.Apply(analysis.SortBy{Field: field})
		}
	case "page":
		_, err = s.controller.Apply(analysis.GoToPage{Page: cmd.Page})
	case "toggle":
		_, err = s.controller.Apply(analysis.ToggleCountry{Code: cmd.Code})
	case "reset":
		_, err = s.controller.Apply(analysis.Reset{})
	case "reload":
		go func() {
			if _, err := s.reload(models.MFetchParams{}); err != nil {
				s.Logger.Warning("Reload requested by client %s: %v", client.id, err)
			}
		}()
	default:
		err = analysis.ErrUnknownAction
	}

	if err != nil {
		client.reply(dashboardMessage{
			Type:   messageError,
			Status: s.controller.Snapshot().Status,
			Error:  err.Error(),
		})
	}
}
