package eventchannel

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Client-to-server event names.
const (
	EventJoinClient  = "join_client"
	EventLeaveClient = "leave_client"
)

// Envelope is one push frame: {"event": "...", "data": {...}}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type binaryEnvelope struct {
	Event string `msgpack:"event"`
	Data  any    `msgpack:"data"`
}

// decodeFrame parses a text frame as JSON and a binary frame as msgpack.
// Binary payloads are re-encoded to JSON so handlers see a single format.
func decodeFrame(messageType int, raw []byte) (Envelope, error) {
	switch messageType {
	case websocket.TextMessage:
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return Envelope{}, fmt.Errorf("decode json frame: %w", err)
		}
		return env, nil

	case websocket.BinaryMessage:
		var be binaryEnvelope
		if err := msgpack.Unmarshal(raw, &be); err != nil {
			return Envelope{}, fmt.Errorf("decode msgpack frame: %w", err)
		}
		env := Envelope{Event: be.Event}
		if be.Data != nil {
			data, err := json.Marshal(be.Data)
			if err != nil {
				return Envelope{}, fmt.Errorf("re-encode msgpack data: %w", err)
			}
			env.Data = data
		}
		return env, nil
	}
	return Envelope{}, fmt.Errorf("unsupported frame type %d", messageType)
}

func encodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

type roomPayload struct {
	ClientID string `json:"client_id"`
}
