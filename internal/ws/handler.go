package ws

import (
	"encoding/base64"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/glyphpad/previewd/internal/logging"
	"github.com/glyphpad/previewd/internal/monitoring"
	"github.com/glyphpad/previewd/internal/preview"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // same-origin enforcement happens at the edge proxy
	},
}

// clientMessage is what the editor sends upstream
type clientMessage struct {
	Type string `json:"type"` // "stdin", "resize", "ping"
	Data string `json:"data,omitempty"` // base64 for stdin
	Cols int    `json:"cols,omitempty"`
	Rows int    `json:"rows,omitempty"`
}

// serverMessage is what the editor receives
type serverMessage struct {
	Type   string         `json:"type"` // "output", "status", "pong"
	Data   string         `json:"data,omitempty"` // base64 terminal bytes
	Status *preview.Event `json:"status,omitempty"`
}

// Handler manages WebSocket terminal connections
type Handler struct {
	orchestrator *preview.Orchestrator
	metrics      *monitoring.Metrics
	logger       *logging.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(orchestrator *preview.Orchestrator, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Handler{orchestrator: orchestrator, metrics: metrics, logger: logger}
}

// HandleConnection upgrades and serves one terminal stream
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.WSSubscribers.Inc()
		defer h.metrics.WSSubscribers.Dec()
	}

	// Concurrent writers (output pump, status events) share the connection
	var writeMu sync.Mutex
	send := func(msg serverMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	replay, chunks, cancel := h.orchestrator.Terminal().Subscribe()
	defer cancel()

	if len(replay) > 0 {
		if err := send(serverMessage{Type: "output", Data: base64.StdEncoding.EncodeToString(replay)}); err != nil {
			return
		}
	}

	h.orchestrator.OnEvent(func(event preview.Event) {
		e := event
		send(serverMessage{Type: "status", Status: &e})
	})
	// Phase snapshot so a late-joining client renders the right state
	status := h.orchestrator.Status()
	send(serverMessage{Type: "status", Status: &preview.Event{
		Phase:      status.Phase,
		PreviewURL: status.PreviewURL,
		Error:      status.LastError,
	}})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for chunk := range chunks {
			if err := send(serverMessage{Type: "output", Data: base64.StdEncoding.EncodeToString(chunk)}); err != nil {
				return
			}
		}
	}()

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}

		switch msg.Type {
		case "stdin":
			input, ok := h.orchestrator.ShellInput()
			if !ok {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(msg.Data)
			if err != nil {
				continue
			}
			input.Write(data)
		case "resize":
			if input, ok := h.orchestrator.ShellInput(); ok {
				input.Resize(msg.Cols, msg.Rows)
			}
		case "ping":
			send(serverMessage{Type: "pong"})
		}
	}

	cancel()
	<-done
}
