// Package wire encodes server frames and decodes client commands for both
// transports. Payloads are plain Go structs; the Nakama transport carries them
// as google.protobuf.Struct messages and the websocket transport as JSON.
package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var ErrMalformed = errors.New("malformed message")

// Frame is a server message. SentAt is filled by the encoder.
type Frame struct {
	Type   string          `json:"type"`
	Data   json.RawMessage `json:"data,omitempty"`
	SentAt string          `json:"sentAt,omitempty"`
}

// Command is a client message on the websocket transport.
type Command struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Codec turns frames into bytes and bytes into command payloads.
type Codec interface {
	Encode(frameType string, payload any) ([]byte, error)
	Decode(data []byte, into any) error
}

// ToStruct converts any JSON-encodable value into a protobuf Struct.
func ToStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: payload is not an object: %v", ErrMalformed, err)
	}
	return structpb.NewStruct(m)
}

// FromStruct fills into from s through its JSON form.
func FromStruct(s *structpb.Struct, into any) error {
	raw, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal struct: %w", err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// Timestamp renders t in the canonical protobuf JSON form.
func Timestamp(t time.Time) string {
	raw, err := protojson.Marshal(timestamppb.New(t))
	if err != nil {
		return ""
	}
	var s string
	_ = json.Unmarshal(raw, &s)
	return s
}

// ProtoCodec encodes frames as binary google.protobuf.Struct messages
// {type, data, sentAt}. Command payloads arrive as a bare Struct.
type ProtoCodec struct {
	Now func() time.Time
}

func (c ProtoCodec) Encode(frameType string, payload any) ([]byte, error) {
	fields := map[string]*structpb.Value{
		"type":   structpb.NewStringValue(frameType),
		"sentAt": structpb.NewStringValue(Timestamp(now(c.Now))),
	}
	if payload != nil {
		data, err := ToStruct(payload)
		if err != nil {
			return nil, err
		}
		fields["data"] = structpb.NewStructValue(data)
	}
	return proto.Marshal(&structpb.Struct{Fields: fields})
}

func (c ProtoCodec) Decode(data []byte, into any) error {
	if len(data) == 0 {
		return nil
	}
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return FromStruct(s, into)
}

// JSONCodec encodes frames as JSON objects {type, data, sentAt}.
type JSONCodec struct {
	Now func() time.Time
}

func (c JSONCodec) Encode(frameType string, payload any) ([]byte, error) {
	f := Frame{Type: frameType, SentAt: Timestamp(now(c.Now))}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		f.Data = raw
	}
	return json.Marshal(f)
}

func (c JSONCodec) Decode(data []byte, into any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// DecodeFrame reads a proto-encoded frame back into a Frame, for clients and tests.
func DecodeFrame(data []byte) (Frame, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(data, s); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var f Frame
	f.Type = s.GetFields()["type"].GetStringValue()
	f.SentAt = s.GetFields()["sentAt"].GetStringValue()
	if d := s.GetFields()["data"].GetStructValue(); d != nil {
		raw, err := protojson.Marshal(d)
		if err != nil {
			return Frame{}, err
		}
		f.Data = raw
	}
	return f, nil
}

// ParseCommand splits a websocket message into its op and payload.
func ParseCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if cmd.Op == "" {
		return Command{}, fmt.Errorf("%w: missing op", ErrMalformed)
	}
	return cmd, nil
}

func now(f func() time.Time) time.Time {
	if f == nil {
		return time.Now()
	}
	return f()
}
