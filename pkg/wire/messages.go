package wire

import (
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/trackdrive/pkg/drive"
	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/kinematics"
	"github.com/robotalks/trackdrive/pkg/wire/pb"
)

// Pose is a pose measurement event.
type Pose struct {
	pb.PoseSample
}

// NewPose creates a Pose.
func NewPose(robotID string, pose geom.Pose2D, stamp time.Time) *Pose {
	return &Pose{PoseSample: pb.PoseSample{
		RobotId:    robotID,
		X:          pose.X,
		Y:          pose.Y,
		Heading:    pose.Heading(),
		StampNanos: stamp.UnixNano(),
	}}
}

// NewMessage implements Message.
func (m *Pose) NewMessage() Message { return &Pose{} }

// TypeID implements Message.
func (m *Pose) TypeID() uint32 { return PoseTypeID }

// Serializable implements Message.
func (m *Pose) Serializable() proto.Message { return &m.PoseSample }

// Pose2D returns the measured pose.
func (m *Pose) Pose2D() geom.Pose2D { return geom.NewPose(m.X, m.Y, m.Heading) }

// Stamp returns the measurement time.
func (m *Pose) Stamp() time.Time { return time.Unix(0, m.StampNanos) }

// Command is the wheel command of a tick.
type Command struct {
	pb.WheelCommand
}

// NewCommand creates a Command.
func NewCommand(robotID string, tick uint64, cmd kinematics.Command) *Command {
	return &Command{WheelCommand: pb.WheelCommand{
		RobotId: robotID,
		Tick:    tick,
		Left:    cmd.Left,
		Right:   cmd.Right,
	}}
}

// NewMessage implements Message.
func (m *Command) NewMessage() Message { return &Command{} }

// TypeID implements Message.
func (m *Command) TypeID() uint32 { return CommandTypeID }

// Serializable implements Message.
func (m *Command) Serializable() proto.Message { return &m.WheelCommand }

// Wheels returns the command pair.
func (m *Command) Wheels() kinematics.Command {
	return kinematics.Command{Left: m.Left, Right: m.Right}
}

// Target sets the goal in point mode.
type Target struct {
	pb.Target
}

// NewTarget creates a Target.
func NewTarget(robotID string, pose geom.Pose2D, finalSpeed float64) *Target {
	return &Target{Target: pb.Target{
		RobotId:    robotID,
		X:          pose.X,
		Y:          pose.Y,
		Heading:    pose.Heading(),
		FinalSpeed: finalSpeed,
	}}
}

// NewMessage implements Message.
func (m *Target) NewMessage() Message { return &Target{} }

// TypeID implements Message.
func (m *Target) TypeID() uint32 { return TargetTypeID }

// Serializable implements Message.
func (m *Target) Serializable() proto.Message { return &m.Target }

// Pose2D returns the goal pose.
func (m *Target) Pose2D() geom.Pose2D { return geom.NewPose(m.X, m.Y, m.Heading) }

// Status reports a control cycle.
type Status struct {
	pb.TrackStatus
}

// NewStatus creates a Status from a control step.
func NewStatus(robotID, mode string, step drive.Step) *Status {
	return &Status{TrackStatus: pb.TrackStatus{
		RobotId:    robotID,
		Tick:       step.Tick,
		Mode:       mode,
		EstX:       step.Estimated.X,
		EstY:       step.Estimated.Y,
		EstHeading: step.Estimated.Heading(),
		Left:       step.Command.Left,
		Right:      step.Command.Right,
		Telemetry:  step.Telemetry,
	}}
}

// NewMessage implements Message.
func (m *Status) NewMessage() Message { return &Status{} }

// TypeID implements Message.
func (m *Status) TypeID() uint32 { return StatusTypeID }

// Serializable implements Message.
func (m *Status) Serializable() proto.Message { return &m.TrackStatus }

// Estimated returns the estimated pose.
func (m *Status) Estimated() geom.Pose2D { return geom.NewPose(m.EstX, m.EstY, m.EstHeading) }
