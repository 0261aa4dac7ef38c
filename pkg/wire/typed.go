// Package wire encodes the messages exchanged between trackd and robots.
package wire

import (
	"errors"
	"fmt"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/trackdrive/pkg/wire/pb"
)

// TypeID masks
const (
	TypeIDMaskKind uint32 = 0x80000000
	TypeIDMaskID   uint32 = 0x0000ffff
)

// Message Kinds
const (
	TypeIDKindCommand uint32 = 0x00000000
	TypeIDKindEvent   uint32 = 0x80000000
)

// Message type IDs.
const (
	PoseTypeID    = TypeIDKindEvent | 0x0001
	StatusTypeID  = TypeIDKindEvent | 0x0002
	CommandTypeID = TypeIDKindCommand | 0x0001
	TargetTypeID  = TypeIDKindCommand | 0x0002
)

// Message can be serialized over the wire.
type Message interface {
	// NewMessage creates an empty message of the same type.
	NewMessage() Message
	TypeID() uint32
	Serializable() proto.Message
}

// ErrUnknownType indicates unknown type id.
type ErrUnknownType struct {
	TypeID uint32
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

// ErrUnexpectedType indicates a decoded message of another type than
// requested.
var ErrUnexpectedType = errors.New("unexpected message type")

// MessageTypes maps type IDs to messages.
var MessageTypes = map[uint32]Message{
	PoseTypeID:    (*Pose)(nil),
	StatusTypeID:  (*Status)(nil),
	CommandTypeID: (*Command)(nil),
	TargetTypeID:  (*Target)(nil),
}

// Typed wraps a message with type information.
type Typed struct {
	pb.Typed
}

// TypedFrom wraps a message.
func TypedFrom(msg Message) (*Typed, error) {
	data, err := proto.Marshal(msg.Serializable())
	if err != nil {
		return nil, err
	}
	return &Typed{Typed: pb.Typed{TypeId: msg.TypeID(), Message: data}}, nil
}

// Decode decodes the wrapped message.
func (p Typed) Decode() (Message, error) {
	msgType, ok := MessageTypes[p.TypeId]
	if !ok {
		return nil, &ErrUnknownType{TypeID: p.TypeId}
	}
	msg := msgType.NewMessage()
	if err := proto.Unmarshal(p.Message, msg.Serializable()); err != nil {
		return nil, err
	}
	return msg, nil
}

// Encode encodes the Typed to bytes.
func (p Typed) Encode() ([]byte, error) {
	return proto.Marshal(&p.Typed)
}

// Kind gets message kind from type ID.
func (p Typed) Kind() uint32 {
	return p.TypeId & TypeIDMaskKind
}

// IsCommand determines if the message is a command.
func (p Typed) IsCommand() bool {
	return p.Kind() == TypeIDKindCommand
}

// IsEvent determines if the message is an event.
func (p Typed) IsEvent() bool {
	return p.Kind() == TypeIDKindEvent
}

// DecodeTyped decodes bytes into Typed.
func DecodeTyped(data []byte) (*Typed, error) {
	var typed Typed
	if err := proto.Unmarshal(data, &typed.Typed); err != nil {
		return nil, err
	}
	return &typed, nil
}

// Marshal wraps and encodes a message.
func Marshal(msg Message) ([]byte, error) {
	typed, err := TypedFrom(msg)
	if err != nil {
		return nil, err
	}
	return typed.Encode()
}

// Unmarshal decodes a message encoded by Marshal.
func Unmarshal(data []byte) (Message, error) {
	typed, err := DecodeTyped(data)
	if err != nil {
		return nil, err
	}
	return typed.Decode()
}
