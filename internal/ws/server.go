package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-emotive/internal/app"
	diag "github.com/coreman2200/funtimes-emotive/internal/diagnostics"
	"github.com/coreman2200/funtimes-emotive/internal/timeline"
)

const writeWait = 200 * time.Millisecond

// maxImport bounds POST /timeline bodies.
const maxImport = 4 << 20

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// Server exposes the core over HTTP and websockets. Core must be set
// before the handler serves requests.
type Server struct {
	Core *app.Core
	Log  zerolog.Logger

	mu          sync.RWMutex
	clients     map[*client]bool
	diagClients map[*client]bool
	diagCh      chan []byte
	startTime   time.Time
	upgrader    websocket.Upgrader
}

func NewServer(log zerolog.Logger) *Server {
	return &Server{
		Log:         log,
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
		diagCh:      make(chan []byte, 64),
		startTime:   time.Now(),
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Handler routes every endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/timeline", s.HandleTimeline)
	mux.HandleFunc("/timeline/schema", s.HandleSchema)
	return mux
}

// Run forwards queued diagnostics to /diag clients until ctx is done.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case b := <-s.diagCh:
			s.broadcast(s.diagClients, b)
		}
	}
}

// PushDiag queues a diagnostic without blocking; it is safe to call from
// inside the core.
func (s *Server) PushDiag(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		return
	}
	select {
	case s.diagCh <- b:
	default:
		s.Log.Debug().Str("code", d.Code).Msg("diagnostic dropped")
	}
}

// BroadcastFrame sends an encoded frame to every /ws client.
func (s *Server) BroadcastFrame(b []byte) {
	s.broadcast(s.clients, b)
}

func (s *Server) broadcast(set map[*client]bool, b []byte) {
	s.mu.RLock()
	targets := make([]*client, 0, len(set))
	for c := range set {
		targets = append(targets, c)
	}
	s.mu.RUnlock()
	for _, c := range targets {
		if err := c.write(b); err != nil {
			s.Log.Debug().Err(err).Msg("write")
		}
	}
}

func (s *Server) upgrade(w http.ResponseWriter, r *http.Request, set map[*client]bool) (*client, bool) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, false
	}
	c := &client{conn: conn}
	if set != nil {
		s.mu.Lock()
		set[c] = true
		s.mu.Unlock()
	}
	return c, true
}

// drain reads until the peer goes away, then unregisters it.
func (s *Server) drain(c *client, set map[*client]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, c)
		s.mu.Unlock()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	c, ok := s.upgrade(w, r, s.clients)
	if !ok {
		return
	}
	s.sendHello(c)
	go s.drain(c, s.clients)
}

func (s *Server) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	c, ok := s.upgrade(w, r, s.diagClients)
	if !ok {
		return
	}
	s.sendHello(c)
	go s.drain(c, s.diagClients)
}

func (s *Server) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	c, ok := s.upgrade(w, r, nil)
	if !ok {
		return
	}
	defer c.conn.Close()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ControlMsg
		var reply Reply
		if err := json.Unmarshal(data, &msg); err != nil {
			reply = Reply{Error: "bad message: " + err.Error()}
		} else {
			reply = s.Apply(msg)
		}
		b, _ := json.Marshal(reply)
		if err := c.write(b); err != nil {
			return
		}
	}
}

// hello is the first message on /ws and /diag.
type hello struct {
	Type     string     `json:"type"`
	Status   app.Status `json:"status"`
	Emotions []string   `json:"emotions"`
	Chains   []string   `json:"chains"`
	Shapes   []string   `json:"shapes"`
}

func (s *Server) sendHello(c *client) {
	h := hello{
		Type:     "hello",
		Status:   s.Core.Status(),
		Emotions: s.Core.Emotions(),
		Chains:   s.Core.Chains(),
		Shapes:   app.Shapes,
	}
	b, _ := json.Marshal(h)
	_ = c.write(b)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	frames, diags := len(s.clients), len(s.diagClients)
	s.mu.RUnlock()
	resp := map[string]any{
		"status":     s.Core.Status(),
		"uptime_s":   time.Since(s.startTime).Seconds(),
		"fps":        s.Core.Config().FPS,
		"frame_subs": frames,
		"diag_subs":  diags,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// HandleTimeline exports the live recording on GET and imports one on POST.
func (s *Server) HandleTimeline(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		b, err := s.Core.ExportJSON()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	case http.MethodPost:
		b, err := io.ReadAll(io.LimitReader(r.Body, maxImport))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.Core.ImportJSON(b); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, timeline.ErrMalformed) {
				status = http.StatusBadRequest
			}
			http.Error(w, err.Error(), status)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) HandleSchema(w http.ResponseWriter, r *http.Request) {
	b, err := timeline.Schema()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	_, _ = w.Write(b)
}
