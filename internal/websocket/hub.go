package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"vidsight/internal/gateway"
	"vidsight/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub streams workspace snapshots. A client connects to its workspace and
// receives one typed frame per session transition; frames are whole
// snapshots, so a dropped frame is repaired by the next one.
type Hub struct {
	manager *session.Manager

	mu    sync.Mutex
	conns int
}

func NewHub(manager *session.Manager) *Hub {
	return &Hub{manager: manager}
}

type frame struct {
	Type  string      `json:"type"`
	Open  bool        `json:"open"`
	State interface{} `json:"state,omitempty"`
}

func (h *Hub) HandleWorkspace(w http.ResponseWriter, r *http.Request) {
	// Authenticate via token query param; browsers cannot set headers on
	// websocket requests.
	token := r.URL.Query().Get("token")
	if token == "" || gateway.CredentialExpired(token) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid workspace ID", http.StatusBadRequest)
		return
	}
	ws, ok := h.manager.Get(id)
	if !ok {
		http.Error(w, "Workspace not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.conns++
	total := h.conns
	h.mu.Unlock()
	log.Printf("WebSocket connected: workspace %s (total: %d)", id, total)

	frames := make(chan []byte, 16)
	var pushMu sync.Mutex
	closed := false
	push := func(kind string) {
		pushMu.Lock()
		defer pushMu.Unlock()
		if closed {
			return
		}
		data, err := json.Marshal(buildFrame(ws, kind))
		if err != nil {
			return
		}
		select {
		case frames <- data:
		default:
			// Slow consumer; the next transition carries the full state anyway.
		}
	}

	cancel := ws.Subscribe(push)
	done := make(chan struct{})

	// Initial snapshots so the client never renders from nothing.
	push("search")
	push("video")
	push("picker")

	// A watch-only client issues no commands, so nothing else would mark the
	// workspace active; keep it out of the TTL sweep while connected.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ws.Touch()
			}
		}
	}()

	// Writer
	go func() {
		for data := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()

	// Reader: only used to detect disconnect.
	go func() {
		defer func() {
			cancel()
			close(done)
			pushMu.Lock()
			closed = true
			pushMu.Unlock()
			close(frames)
			conn.Close()

			h.mu.Lock()
			h.conns--
			h.mu.Unlock()
			log.Printf("WebSocket disconnected: workspace %s", id)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func buildFrame(ws *session.Workspace, kind string) frame {
	f := frame{Type: kind, Open: true}
	switch kind {
	case "search":
		f.State = ws.Search.Snapshot()
	case "video":
		f.State = ws.Video.Snapshot()
	case "picker":
		p := ws.Picker()
		if p == nil {
			f.Open = false
			return f
		}
		f.State = p.Snapshot()
	}
	return f
}
