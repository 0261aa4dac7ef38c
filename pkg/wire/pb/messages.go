// Package pb holds the wire messages defined in
// proto/trackdrive/v1/wire.proto.
package pb

import (
	"github.com/golang/protobuf/proto"
)

// Typed is the envelope of all messages.
type Typed struct {
	TypeId  uint32 `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Message []byte `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
}

func (m *Typed) Reset()         { *m = Typed{} }
func (m *Typed) String() string { return proto.CompactTextString(m) }
func (*Typed) ProtoMessage()    {}

// PoseSample is a pose measurement of a robot.
type PoseSample struct {
	RobotId    string  `protobuf:"bytes,1,opt,name=robot_id,json=robotId,proto3" json:"robot_id,omitempty"`
	X          float64 `protobuf:"fixed64,2,opt,name=x,proto3" json:"x,omitempty"`
	Y          float64 `protobuf:"fixed64,3,opt,name=y,proto3" json:"y,omitempty"`
	Heading    float64 `protobuf:"fixed64,4,opt,name=heading,proto3" json:"heading,omitempty"`
	StampNanos int64   `protobuf:"varint,5,opt,name=stamp_nanos,json=stampNanos,proto3" json:"stamp_nanos,omitempty"`
}

func (m *PoseSample) Reset()         { *m = PoseSample{} }
func (m *PoseSample) String() string { return proto.CompactTextString(m) }
func (*PoseSample) ProtoMessage()    {}

// WheelCommand is the wheel speed pair for a tick.
type WheelCommand struct {
	RobotId string  `protobuf:"bytes,1,opt,name=robot_id,json=robotId,proto3" json:"robot_id,omitempty"`
	Tick    uint64  `protobuf:"varint,2,opt,name=tick,proto3" json:"tick,omitempty"`
	Left    float64 `protobuf:"fixed64,3,opt,name=left,proto3" json:"left,omitempty"`
	Right   float64 `protobuf:"fixed64,4,opt,name=right,proto3" json:"right,omitempty"`
}

func (m *WheelCommand) Reset()         { *m = WheelCommand{} }
func (m *WheelCommand) String() string { return proto.CompactTextString(m) }
func (*WheelCommand) ProtoMessage()    {}

// Target is the goal pose in point mode.
type Target struct {
	RobotId    string  `protobuf:"bytes,1,opt,name=robot_id,json=robotId,proto3" json:"robot_id,omitempty"`
	X          float64 `protobuf:"fixed64,2,opt,name=x,proto3" json:"x,omitempty"`
	Y          float64 `protobuf:"fixed64,3,opt,name=y,proto3" json:"y,omitempty"`
	Heading    float64 `protobuf:"fixed64,4,opt,name=heading,proto3" json:"heading,omitempty"`
	FinalSpeed float64 `protobuf:"fixed64,5,opt,name=final_speed,json=finalSpeed,proto3" json:"final_speed,omitempty"`
}

func (m *Target) Reset()         { *m = Target{} }
func (m *Target) String() string { return proto.CompactTextString(m) }
func (*Target) ProtoMessage()    {}

// TrackStatus reports a control cycle.
type TrackStatus struct {
	RobotId    string             `protobuf:"bytes,1,opt,name=robot_id,json=robotId,proto3" json:"robot_id,omitempty"`
	Tick       uint64             `protobuf:"varint,2,opt,name=tick,proto3" json:"tick,omitempty"`
	Mode       string             `protobuf:"bytes,3,opt,name=mode,proto3" json:"mode,omitempty"`
	EstX       float64            `protobuf:"fixed64,4,opt,name=est_x,json=estX,proto3" json:"est_x,omitempty"`
	EstY       float64            `protobuf:"fixed64,5,opt,name=est_y,json=estY,proto3" json:"est_y,omitempty"`
	EstHeading float64            `protobuf:"fixed64,6,opt,name=est_heading,json=estHeading,proto3" json:"est_heading,omitempty"`
	Left       float64            `protobuf:"fixed64,7,opt,name=left,proto3" json:"left,omitempty"`
	Right      float64            `protobuf:"fixed64,8,opt,name=right,proto3" json:"right,omitempty"`
	Telemetry  map[string]float64 `protobuf:"bytes,9,rep,name=telemetry,proto3" json:"telemetry,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"fixed64,2,opt,name=value,proto3"`
}

func (m *TrackStatus) Reset()         { *m = TrackStatus{} }
func (m *TrackStatus) String() string { return proto.CompactTextString(m) }
func (*TrackStatus) ProtoMessage()    {}
