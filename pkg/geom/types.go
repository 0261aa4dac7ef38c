// Package geom defines the planar value types shared by kinematics,
// paths and controllers: positions, headings and poses in field-fixed
// coordinates.
package geom

import (
	"fmt"
	"math"
)

// Pos2D defines the position in 2D.
type Pos2D struct {
	X, Y float64
}

// Pose2D defines the pose in 2D. Orientation is the heading.
type Pose2D struct {
	Pos2D
	Orientation Angle
}

// Angle is the common representation of angle, always kept in (-pi, pi].
type Angle float64

// NewPose creates a Pose2D with a normalized heading.
func NewPose(x, y, heading float64) Pose2D {
	return Pose2D{Pos2D: Pos2D{X: x, Y: y}, Orientation: AngleFromRadians(heading)}
}

// Add is a helper to add Pos2D.
func (p Pos2D) Add(p1 Pos2D) Pos2D {
	return Pos2D{X: p.X + p1.X, Y: p.Y + p1.Y}
}

// Sub returns p - p1.
func (p Pos2D) Sub(p1 Pos2D) Pos2D {
	return Pos2D{X: p.X - p1.X, Y: p.Y - p1.Y}
}

// Scale multiplies both components by k.
func (p Pos2D) Scale(k float64) Pos2D {
	return Pos2D{X: p.X * k, Y: p.Y * k}
}

// Norm is the euclidean length.
func (p Pos2D) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// DistanceTo returns the euclidean distance between two positions.
func (p Pos2D) DistanceTo(p1 Pos2D) float64 {
	return p.Sub(p1).Norm()
}

// OffsetBy performs Add in-place.
func (p *Pos2D) OffsetBy(p1 Pos2D) *Pos2D {
	p.X += p1.X
	p.Y += p1.Y
	return p
}

// Heading returns the pose heading in radians.
func (p Pose2D) Heading() float64 {
	return p.Orientation.Radians()
}

// InFrame expresses the world position q in the pose's local frame,
// X pointing along the heading.
func (p Pose2D) InFrame(q Pos2D) Pos2D {
	d := q.Sub(p.Pos2D)
	c, s := p.Orientation.Cos(), p.Orientation.Sin()
	return Pos2D{X: c*d.X + s*d.Y, Y: -s*d.X + c*d.Y}
}

func (p Pose2D) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", p.X, p.Y, p.Orientation.Radians())
}
