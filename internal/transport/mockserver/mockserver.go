// Package mockserver is an in-process backend speaking the console's wire
// protocol: hello handshake, state broadcasts, request submission, and user
// lookups. It backs the `console mock` subcommand and the end-to-end tests.
package mockserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Greenheart/hathora/internal/refcache"
	"github.com/Greenheart/hathora/internal/transport"
)

// ProtocolVersion is what the server advertises in its hello message.
const ProtocolVersion = "0.3.1"

// SubmitHandler applies one request for a connected user and returns the
// response plus the new broadcast state (nil when unchanged).
type SubmitHandler func(userID, method string, payload any) (transport.Response, any)

// Config configures a mock backend.
type Config struct {
	InitialState any
	Users        map[string]*refcache.Descriptor
	OnSubmit     SubmitHandler
	Logger       *zap.Logger
}

// Server is the mock backend. One instance serves any number of consoles
// and broadcasts every state change to all of them.
type Server struct {
	cfg Config
	log *zap.Logger

	mu    sync.Mutex
	state any
	conns map[*websocket.Conn]context.Context
}

// New builds a server from cfg.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Server{
		cfg:   cfg,
		log:   cfg.Logger.Named("mockserver"),
		state: cfg.InitialState,
		conns: make(map[*websocket.Conn]context.Context),
	}
}

// Handler returns the HTTP routes: the websocket endpoint at /ws and a
// health probe at /healthz.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ws", s.serveWS)
	return r
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.Warn("accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	userID := r.URL.Query().Get("user")
	if userID == "" {
		userID = "u-" + uuid.NewString()[:8]
	}

	if err := s.send(ctx, conn, map[string]any{
		"type":            "hello",
		"protocolVersion": ProtocolVersion,
		"user":            userID,
	}); err != nil {
		return
	}

	s.mu.Lock()
	s.conns[conn] = ctx
	state := s.state
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
	}()

	if state != nil {
		if err := s.sendState(ctx, conn, state); err != nil {
			return
		}
	}
	s.log.Info("console connected", zap.String("user", userID))

	for {
		var msg struct {
			Type    string          `json:"type"`
			ID      string          `json:"id"`
			Method  string          `json:"method"`
			Payload json.RawMessage `json:"payload"`
			UserID  string          `json:"userId"`
		}
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				s.log.Debug("read failed", zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case "submit":
			var payload any
			_ = json.Unmarshal(msg.Payload, &payload)
			resp := transport.Errorf("no submit handler")
			var next any
			if s.cfg.OnSubmit != nil {
				resp, next = s.cfg.OnSubmit(userID, msg.Method, payload)
			}
			_ = s.send(ctx, conn, map[string]any{
				"type": "response", "id": msg.ID, "result": resp,
			})
			if next != nil {
				s.Broadcast(next)
			}
		case "lookup":
			reply := map[string]any{"type": "user", "id": msg.ID}
			if d := s.cfg.Users[msg.UserID]; d != nil {
				reply["userInfo"] = map[string]any{"id": d.ID, "type": d.Type}
			}
			_ = s.send(ctx, conn, reply)
		case "ping":
			_ = s.send(ctx, conn, map[string]any{"type": "pong", "id": msg.ID})
		default:
			_ = s.send(ctx, conn, map[string]any{
				"type": "response", "id": msg.ID,
				"result": transport.Errorf("unknown message type " + msg.Type),
			})
		}
	}
}

// Broadcast pushes a new state snapshot to every connected console.
func (s *Server) Broadcast(state any) {
	s.mu.Lock()
	s.state = state
	conns := make(map[*websocket.Conn]context.Context, len(s.conns))
	for c, ctx := range s.conns {
		conns[c] = ctx
	}
	s.mu.Unlock()

	for conn, ctx := range conns {
		if err := s.sendState(ctx, conn, state); err != nil {
			s.log.Debug("broadcast failed", zap.Error(err))
		}
	}
}

func (s *Server) sendState(ctx context.Context, conn *websocket.Conn, state any) error {
	return s.send(ctx, conn, map[string]any{
		"type":  "state",
		"state": state,
		"ts":    time.Now().UnixMilli(),
	})
}

func (s *Server) send(ctx context.Context, conn *websocket.Conn, msg any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}
