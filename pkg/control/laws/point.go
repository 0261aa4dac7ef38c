// Package laws provides reference control laws.
package laws

import (
	"math"

	"github.com/robotalks/trackdrive/pkg/control"
	"github.com/robotalks/trackdrive/pkg/geom"
	"github.com/robotalks/trackdrive/pkg/kinematics"
)

// Polar is a go-to-pose law in polar coordinates: rho is the distance to
// the target, alpha the bearing of the target from the heading and beta
// the remaining rotation to the target heading.
//
//	v = KRho*rho + finalSpeed
//	w = KAlpha*alpha + KBeta*beta
//
// Stable for KRho > 0, KBeta < 0, KAlpha > KRho. Targets behind the robot
// are approached in reverse.
type Polar struct {
	Model kinematics.Model

	KRho, KAlpha, KBeta float64

	// MaxSpeed saturates each wheel.
	MaxSpeed float64
	// MaxSpeedStep bounds the increase of the larger wheel speed relative
	// to the previous command, 0 for no bound.
	MaxSpeedStep float64
	// Tolerance is the distance under which only heading is corrected.
	Tolerance float64
}

// NewPolar creates a Polar law with stable default gains.
func NewPolar(model kinematics.Model, maxSpeed float64) *Polar {
	return &Polar{
		Model:     model,
		KRho:      1,
		KAlpha:    3,
		KBeta:     -1,
		MaxSpeed:  maxSpeed,
		Tolerance: 1e-3,
	}
}

// PointCommand implements control.PointLaw.
func (l *Polar) PointCommand(estimated, target geom.Pose2D, prevSpeed, finalSpeed float64) (kinematics.Command, control.Telemetry) {
	d := target.Sub(estimated.Pos2D)
	rho := d.Norm()
	tm := make(control.Telemetry).With("rho", rho)
	var v, w float64
	if rho < l.Tolerance {
		eth := target.Orientation.Sub(estimated.Orientation).Radians()
		v, w = finalSpeed, l.KAlpha*eth
		tm.With("eTheta", eth)
	} else {
		alpha := geom.NormalizeRadians(math.Atan2(d.Y, d.X) - estimated.Heading())
		dir := 1.0
		if math.Abs(alpha) > math.Pi/2 {
			dir, alpha = -1, geom.NormalizeRadians(alpha+math.Pi)
		}
		beta := geom.NormalizeRadians(target.Heading() - estimated.Heading() - alpha)
		v = dir * (l.KRho*rho + finalSpeed)
		w = l.KAlpha*alpha + l.KBeta*beta
		tm.With("alpha", alpha).With("beta", beta)
	}
	cmd := saturate(l.Model.Wheels(v, w), l.MaxSpeed)
	if l.MaxSpeedStep > 0 {
		cmd = saturate(cmd, prevSpeed+l.MaxSpeedStep)
	}
	return cmd, tm.With("v", v).With("w", w)
}

// saturate scales both wheels so neither exceeds limit, keeping the
// turning radius.
func saturate(cmd kinematics.Command, limit float64) kinematics.Command {
	if limit <= 0 {
		return cmd
	}
	if m := cmd.Speed(); m > limit {
		k := limit / m
		cmd.Left *= k
		cmd.Right *= k
	}
	return cmd
}
