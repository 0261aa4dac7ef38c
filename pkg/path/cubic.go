package path

import "github.com/robotalks/trackdrive/pkg/geom"

// Cubic is the Hermite cubic joining two poses. Both boundary tangents
// point along the pose headings with magnitude equal to the straight
// line distance between the endpoints.
type Cubic struct {
	Start, End geom.Pose2D

	poly2
}

// NewCubic creates a cubic blend between two poses.
func NewCubic(start, end geom.Pose2D) *Curve {
	d := start.DistanceTo(end.Pos2D)
	t0, t1 := start.Orientation.Project(d), end.Orientation.Project(d)
	c := &Cubic{Start: start, End: end}
	c.poly2 = newPoly2(
		hermite3(start.X, end.X, t0.X, t1.X),
		hermite3(start.Y, end.Y, t0.Y, t1.Y),
	)
	return New(c)
}

func hermite3(p0, p1, t0, t1 float64) poly {
	return poly{
		p0,
		t0,
		3*(p1-p0) - 2*t0 - t1,
		t1 + t0 - 2*(p1-p0),
	}
}

// Position implements Geometry.
func (c *Cubic) Position(u float64) geom.Pos2D { return c.position(u) }

// Derivative implements Geometry.
func (c *Cubic) Derivative(u float64) geom.Pos2D { return c.derivative(u) }

// SecondDerivative implements Geometry.
func (c *Cubic) SecondDerivative(u float64) geom.Pos2D { return c.secondDerivative(u) }
