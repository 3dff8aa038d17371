// Package hub fans telemetry out to websocket clients over channels.
package hub

import "github.com/gofiber/websocket/v2"

// MessageType selects the websocket frame type.
type MessageType int

const (
	// JSONMessage is sent as a text frame.
	JSONMessage MessageType = iota
	// BinaryMessage is sent as a binary frame (JPEG camera frames).
	BinaryMessage

	// Control frames, written by the client's own loop only.
	pingMessage
	closeMessage
)

// Message is one broadcast payload.
type Message struct {
	Type MessageType
	Data []byte
}

var (
	pingFrame  = Message{Type: pingMessage}
	closeFrame = Message{Type: closeMessage, Data: []byte{}}
)

// NewJSONMessage wraps pre-encoded JSON.
func NewJSONMessage(data []byte) Message {
	return Message{Type: JSONMessage, Data: data}
}

// NewBinaryMessage wraps binary data.
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}

func (m Message) frameType() int {
	switch m.Type {
	case BinaryMessage:
		return websocket.BinaryMessage
	case pingMessage:
		return websocket.PingMessage
	case closeMessage:
		return websocket.CloseMessage
	default:
		return websocket.TextMessage
	}
}
