// Package kinematics implements the differential-drive kinematic model
// used both for delay compensation and for ground-truth simulation.
package kinematics

import (
	"errors"
	"math"

	"github.com/robotalks/trackdrive/pkg/geom"
)

// Command is a pair of wheel-speed commands.
type Command struct {
	Left, Right float64
}

// Speed is the larger wheel speed magnitude.
func (c Command) Speed() float64 {
	return math.Max(math.Abs(c.Left), math.Abs(c.Right))
}

// Model is the differential-drive model. Speeds are in field units per
// second, WheelBase in field units.
type Model struct {
	WheelBase float64
}

// Defaults
const (
	DefaultWheelBase float64 = 0.1

	// below this angular rate the arc is integrated as a straight line.
	straightEpsilon = 1e-9
)

// ErrInvalidWheelBase indicates a non-positive wheel base.
var ErrInvalidWheelBase = errors.New("wheel base must be positive")

// NewModel creates a Model.
func NewModel(wheelBase float64) (Model, error) {
	if !(wheelBase > 0) {
		return Model{}, ErrInvalidWheelBase
	}
	return Model{WheelBase: wheelBase}, nil
}

// Twist converts wheel speeds into linear and angular velocity.
func (m Model) Twist(cmd Command) (v, w float64) {
	return (cmd.Left + cmd.Right) / 2, (cmd.Right - cmd.Left) / m.WheelBase
}

// Wheels converts linear and angular velocity into wheel speeds.
func (m Model) Wheels(v, w float64) Command {
	return Command{Left: v - m.WheelBase*w/2, Right: v + m.WheelBase*w/2}
}

// Advance moves pose along the arc produced by cmd held for dt seconds.
// Negative dt is clamped to 0.
func (m Model) Advance(pose geom.Pose2D, cmd Command, dt float64) geom.Pose2D {
	if dt <= 0 {
		return pose
	}
	v, w := m.Twist(cmd)
	theta := pose.Orientation.Radians()
	if math.Abs(w) < straightEpsilon {
		pose.OffsetBy(pose.Orientation.Project(v * dt))
		return pose
	}
	next := theta + w*dt
	r := v / w
	pose.X += r * (math.Sin(next) - math.Sin(theta))
	pose.Y -= r * (math.Cos(next) - math.Cos(theta))
	pose.Orientation = geom.AngleFromRadians(next)
	return pose
}

// AdvanceAll applies each command in order for dt seconds.
func (m Model) AdvanceAll(pose geom.Pose2D, cmds []Command, dt float64) geom.Pose2D {
	for _, cmd := range cmds {
		pose = m.Advance(pose, cmd, dt)
	}
	return pose
}
