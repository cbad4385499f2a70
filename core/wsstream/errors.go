package wsstream

import "errors"

var (
	// ErrConnectionLost is delivered to a client observer when the connection
	// ends without a terminal frame.
	ErrConnectionLost = errors.New("stream connection lost")

	// ErrDecode is delivered to a client observer when a value frame cannot be decoded.
	ErrDecode = errors.New("failed to decode stream frame")

	// ErrDialFailed is returned by Dial when the websocket handshake fails.
	ErrDialFailed = errors.New("failed to dial stream")

	errStreamTerminated = errors.New("stream terminated")
	errClientCancelled  = errors.New("client cancelled")
)

// RemoteError carries the message of an error frame sent by the server.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "remote stream error: " + e.Message
}
