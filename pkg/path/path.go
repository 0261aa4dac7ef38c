// Package path provides parametric paths over u in [0, 1].
//
// Every path exposes its position, the derivative of position with
// respect to u (whose magnitude is the speed integrated for arc length),
// the tangent heading and the signed curvature. Concrete geometries only
// provide the closed forms for position and its first two derivatives.
package path

import (
	"math"

	"github.com/robotalks/trackdrive/pkg/geom"
)

// Geometry is the closed form of a curve.
type Geometry interface {
	Position(u float64) geom.Pos2D
	Derivative(u float64) geom.Pos2D
	SecondDerivative(u float64) geom.Pos2D
}

// Path is a parametric path.
type Path interface {
	Geometry
	// Speed is |dPosition/du|.
	Speed(u float64) float64
	// Heading is the direction of the tangent.
	Heading(u float64) geom.Angle
	// Curvature is signed, positive turning counter-clockwise.
	Curvature(u float64) float64
}

// Preparer is implemented by paths requiring one-time setup before
// they can be evaluated cheaply.
type Preparer interface {
	Prepare() error
}

// degenerate derivative magnitude.
const zeroSpeed = 1e-12

// Curve derives the Path quantities from a Geometry.
type Curve struct {
	Geometry
}

// New wraps a Geometry into a Path.
func New(g Geometry) *Curve {
	return &Curve{Geometry: g}
}

// Speed implements Path.
func (c *Curve) Speed(u float64) float64 {
	return c.Derivative(clamp(u)).Norm()
}

// Heading implements Path.
func (c *Curve) Heading(u float64) geom.Angle {
	u = clamp(u)
	d := c.Derivative(u)
	if d.Norm() < zeroSpeed {
		// cusp: the tangent direction follows the second derivative.
		d = c.SecondDerivative(u)
	}
	return geom.AngleFromRadians(math.Atan2(d.Y, d.X))
}

// Curvature implements Path.
func (c *Curve) Curvature(u float64) float64 {
	u = clamp(u)
	d, dd := c.Derivative(u), c.SecondDerivative(u)
	n := d.Norm()
	if n < zeroSpeed {
		return 0
	}
	return (d.X*dd.Y - d.Y*dd.X) / (n * n * n)
}

// Prepare forwards to the Geometry if it is a Preparer.
func (c *Curve) Prepare() error {
	if p, ok := c.Geometry.(Preparer); ok {
		return p.Prepare()
	}
	return nil
}

// Pose returns the pose on the path at u, heading along the tangent.
func Pose(p Path, u float64) geom.Pose2D {
	return geom.Pose2D{Pos2D: p.Position(u), Orientation: p.Heading(u)}
}

func clamp(u float64) float64 {
	if u < 0 {
		return 0
	}
	if u > 1 {
		return 1
	}
	return u
}
