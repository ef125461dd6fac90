// Package transport implements the live WebSocket connection to the game
// backend: request submission, user identity lookup, and the inbound state
// snapshot feed.
package transport

import (
	"encoding/json"
	"time"
)

// Response is the tagged result of one submitted request.
type Response struct {
	Type  string `json:"type"` // "success" | "error"
	Error string `json:"error,omitempty"`
}

// OK reports whether the backend accepted the request.
func (r Response) OK() bool { return r.Type == "success" }

// Success is the canonical accepted response.
func Success() Response { return Response{Type: "success"} }

// Errorf builds an error response with the given message.
func Errorf(msg string) Response { return Response{Type: "error", Error: msg} }

// Snapshot is one pushed state update.
type Snapshot struct {
	State any
	At    time.Time
}

// clientMessage is the client-to-server wire envelope.
type clientMessage struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Method  string `json:"method,omitempty"`
	Payload any    `json:"payload,omitempty"`
	UserID  string `json:"userId,omitempty"`
}

// serverMessage is the server-to-client wire envelope.
type serverMessage struct {
	Type            string          `json:"type"`
	ID              string          `json:"id,omitempty"`
	ProtocolVersion string          `json:"protocolVersion,omitempty"`
	User            string          `json:"user,omitempty"`
	State           json.RawMessage `json:"state,omitempty"`
	TS              int64           `json:"ts,omitempty"`
	Result          *Response       `json:"result,omitempty"`
	UserInfo        *wireUser       `json:"userInfo,omitempty"`
}

type wireUser struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}
