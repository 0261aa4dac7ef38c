package path

import (
	"math"

	"github.com/robotalks/trackdrive/pkg/geom"
)

// Ellipse traces Turns revolutions of an axis aligned ellipse:
//
//	x = cx + A sin(2 pi Turns u + Phase)
//	y = cy + B cos(2 pi Turns u + Phase)
type Ellipse struct {
	Center geom.Pos2D
	A, B   float64
	Phase  float64
	Turns  float64
}

// NewEllipse creates an elliptic path.
func NewEllipse(center geom.Pos2D, a, b, phase, turns float64) *Curve {
	return New(&Ellipse{Center: center, A: a, B: b, Phase: phase, Turns: turns})
}

// NewCircle creates a circular path.
func NewCircle(center geom.Pos2D, r, phase, turns float64) *Curve {
	return NewEllipse(center, r, r, phase, turns)
}

func (e *Ellipse) omega() float64 {
	return 2 * math.Pi * e.Turns
}

// Position implements Geometry.
func (e *Ellipse) Position(u float64) geom.Pos2D {
	s, c := math.Sincos(e.omega()*u + e.Phase)
	return geom.Pos2D{X: e.Center.X + e.A*s, Y: e.Center.Y + e.B*c}
}

// Derivative implements Geometry.
func (e *Ellipse) Derivative(u float64) geom.Pos2D {
	w := e.omega()
	s, c := math.Sincos(w*u + e.Phase)
	return geom.Pos2D{X: e.A * w * c, Y: -e.B * w * s}
}

// SecondDerivative implements Geometry.
func (e *Ellipse) SecondDerivative(u float64) geom.Pos2D {
	w := e.omega()
	s, c := math.Sincos(w*u + e.Phase)
	return geom.Pos2D{X: -e.A * w * w * s, Y: -e.B * w * w * c}
}
