package wsstream

import "encoding/json"

// Frame types exchanged over the connection.
const (
	// Client to server.
	FrameRequest = "request"
	FrameCancel  = "cancel"

	// Server to client.
	FrameNext     = "next"
	FrameError    = "error"
	FrameComplete = "complete"
)

// Frame is the JSON message carried in every websocket text message.
//
//	{"type":"request","n":10}
//	{"type":"next","data":{"id":1}}
//	{"type":"error","error":"upstream failed"}
type Frame struct {
	Type  string          `json:"type"`
	N     int64           `json:"n,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}
