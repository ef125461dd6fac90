package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	goversion "github.com/hashicorp/go-version"
	"go.uber.org/zap"

	"github.com/Greenheart/hathora/internal/refcache"
)

// protocolConstraint is the range of backend protocol versions this console
// can talk to. The server advertises its version in the hello message.
const protocolConstraint = ">= 0.3.0, < 2.0.0"

// ProtocolConstraint reports the supported backend protocol range.
func ProtocolConstraint() string { return protocolConstraint }

// Config configures a client connection.
type Config struct {
	URL    string
	Logger *zap.Logger
}

// Client is a live connection to the backend. One read loop owns the socket;
// submits and lookups are correlated to responses by request ID.
type Client struct {
	conn   *websocket.Conn
	log    *zap.Logger
	userID string

	snapshots chan Snapshot

	mu      sync.Mutex
	pending map[string]chan serverMessage
	closed  bool
}

// Dial connects, performs the hello handshake, and starts the read loop.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	conn, _, err := websocket.Dial(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL, err)
	}

	var hello serverMessage
	if err := wsjson.Read(ctx, conn, &hello); err != nil {
		conn.Close(websocket.StatusProtocolError, "no hello")
		return nil, fmt.Errorf("read hello: %w", err)
	}
	if hello.Type != "hello" {
		conn.Close(websocket.StatusProtocolError, "bad hello")
		return nil, fmt.Errorf("expected hello, got %q", hello.Type)
	}
	if err := checkProtocol(hello.ProtocolVersion); err != nil {
		conn.Close(websocket.StatusProtocolError, "version mismatch")
		return nil, err
	}

	c := &Client{
		conn:      conn,
		log:       cfg.Logger.Named("transport"),
		userID:    hello.User,
		snapshots: make(chan Snapshot, 8),
		pending:   make(map[string]chan serverMessage),
	}
	c.log.Info("connected",
		zap.String("url", cfg.URL),
		zap.String("protocol", hello.ProtocolVersion),
		zap.String("user", hello.User))

	go c.readLoop()
	return c, nil
}

func checkProtocol(v string) error {
	if v == "" {
		return fmt.Errorf("server did not advertise a protocol version")
	}
	ver, err := goversion.NewVersion(v)
	if err != nil {
		return fmt.Errorf("parse protocol version %q: %w", v, err)
	}
	constraint, err := goversion.NewConstraint(protocolConstraint)
	if err != nil {
		return fmt.Errorf("parse constraint: %w", err)
	}
	if !constraint.Check(ver) {
		return fmt.Errorf("server protocol %s outside supported range %s", v, protocolConstraint)
	}
	return nil
}

// UserID returns the identity the server assigned on connect.
func (c *Client) UserID() string { return c.userID }

// Snapshots returns the inbound state feed. The channel closes when the
// connection drops.
func (c *Client) Snapshots() <-chan Snapshot { return c.snapshots }

func (c *Client) readLoop() {
	defer func() {
		c.mu.Lock()
		c.closed = true
		for id, ch := range c.pending {
			close(ch)
			delete(c.pending, id)
		}
		c.mu.Unlock()
		close(c.snapshots)
	}()

	ctx := context.Background()
	for {
		var msg serverMessage
		if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.log.Info("connection closed", zap.Int("status", int(websocket.CloseStatus(err))))
			} else {
				c.log.Warn("read failed", zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case "state":
			var state any
			if err := json.Unmarshal(msg.State, &state); err != nil {
				c.log.Warn("malformed state snapshot", zap.Error(err))
				continue
			}
			at := time.UnixMilli(msg.TS)
			if msg.TS == 0 {
				at = time.Now()
			}
			// Drop stale snapshots rather than block the socket; only the
			// latest state matters to the display pipeline.
			select {
			case c.snapshots <- Snapshot{State: state, At: at}:
			default:
				select {
				case <-c.snapshots:
				default:
				}
				c.snapshots <- Snapshot{State: state, At: at}
			}
		case "response", "user":
			c.deliver(msg)
		case "pong":
		default:
			c.log.Debug("unknown server message", zap.String("type", msg.Type))
		}
	}
}

func (c *Client) deliver(msg serverMessage) {
	c.mu.Lock()
	ch, ok := c.pending[msg.ID]
	if ok {
		delete(c.pending, msg.ID)
	}
	c.mu.Unlock()
	if !ok {
		c.log.Debug("response with no pending request", zap.String("id", msg.ID))
		return
	}
	ch <- msg
	close(ch)
}

func (c *Client) register(id string) (chan serverMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, fmt.Errorf("connection closed")
	}
	ch := make(chan serverMessage, 1)
	c.pending[id] = ch
	return ch, nil
}

func (c *Client) unregister(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Submit sends one request payload and waits for its tagged response.
func (c *Client) Submit(ctx context.Context, method string, payload any) (Response, error) {
	id := uuid.NewString()
	ch, err := c.register(id)
	if err != nil {
		return Response{}, err
	}

	msg := clientMessage{Type: "submit", ID: id, Method: method, Payload: payload}
	if err := wsjson.Write(ctx, c.conn, msg); err != nil {
		c.unregister(id)
		return Response{}, fmt.Errorf("write %s: %w", method, err)
	}
	c.log.Debug("submitted", zap.String("method", method), zap.String("id", id))

	select {
	case <-ctx.Done():
		c.unregister(id)
		return Response{}, ctx.Err()
	case reply, ok := <-ch:
		if !ok {
			return Response{}, fmt.Errorf("connection closed awaiting %s", method)
		}
		if reply.Result == nil {
			return Response{}, fmt.Errorf("response for %s carried no result", method)
		}
		return *reply.Result, nil
	}
}

// LookupUser resolves an identifier to a descriptor. A nil descriptor with
// nil error means the backend does not know the identity.
func (c *Client) LookupUser(ctx context.Context, userID string) (*refcache.Descriptor, error) {
	id := uuid.NewString()
	ch, err := c.register(id)
	if err != nil {
		return nil, err
	}

	msg := clientMessage{Type: "lookup", ID: id, UserID: userID}
	if err := wsjson.Write(ctx, c.conn, msg); err != nil {
		c.unregister(id)
		return nil, fmt.Errorf("write lookup: %w", err)
	}

	select {
	case <-ctx.Done():
		c.unregister(id)
		return nil, ctx.Err()
	case reply, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("connection closed awaiting lookup")
		}
		if reply.UserInfo == nil {
			return nil, nil
		}
		return &refcache.Descriptor{ID: reply.UserInfo.ID, Type: reply.UserInfo.Type}, nil
	}
}

// Close tears down the socket.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}
