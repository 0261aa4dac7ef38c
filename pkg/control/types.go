// Package control defines the contracts between the delay-compensated
// controller and the pluggable control laws.
package control

import (
	"time"

	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/kinematics"
	"github.com/robotalks/trackdrive/pkg/path"
)

// Telemetry is the diagnostic record produced by a control law. It is
// passed through to the caller untouched.
type Telemetry map[string]float64

// With sets a value and returns the Telemetry for chaining.
func (t Telemetry) With(key string, val float64) Telemetry {
	t[key] = val
	return t
}

// PointLaw drives the robot from its pose to a single target pose.
// prevSpeed is the largest wheel speed magnitude of the previous command,
// finalSpeed the desired speed when reaching the target.
type PointLaw interface {
	PointCommand(estimated, target geom.Pose2D, prevSpeed, finalSpeed float64) (kinematics.Command, Telemetry)
}

// PointLawFunc is the func form of PointLaw.
type PointLawFunc func(estimated, target geom.Pose2D, prevSpeed, finalSpeed float64) (kinematics.Command, Telemetry)

// PointCommand implements PointLaw.
func (f PointLawFunc) PointCommand(estimated, target geom.Pose2D, prevSpeed, finalSpeed float64) (kinematics.Command, Telemetry) {
	return f(estimated, target, prevSpeed, finalSpeed)
}

// TrackingLaw follows a path over time. elapsed is the time since the
// tracking epoch started.
type TrackingLaw interface {
	TrackCommand(estimated geom.Pose2D, prev kinematics.Command, elapsed time.Duration) (kinematics.Command, Telemetry)
	// SetPath replaces the path followed, rebuilding anything derived
	// from the previous path.
	SetPath(path.Path) error
}
