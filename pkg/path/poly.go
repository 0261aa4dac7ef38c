package path

import "github.com/robotalks/trackdrive/pkg/geom"

// poly holds coefficients in ascending powers of u.
type poly []float64

func (p poly) eval(u float64) float64 {
	var r float64
	for i := len(p) - 1; i >= 0; i-- {
		r = r*u + p[i]
	}
	return r
}

func (p poly) deriv() poly {
	if len(p) <= 1 {
		return poly{0}
	}
	d := make(poly, len(p)-1)
	for i := 1; i < len(p); i++ {
		d[i-1] = float64(i) * p[i]
	}
	return d
}

// poly2 is a planar polynomial curve with cached derivatives.
type poly2 struct {
	x, y     poly
	dx, dy   poly
	ddx, ddy poly
}

func newPoly2(x, y poly) poly2 {
	p := poly2{x: x, y: y}
	p.dx, p.dy = x.deriv(), y.deriv()
	p.ddx, p.ddy = p.dx.deriv(), p.dy.deriv()
	return p
}

func (p *poly2) position(u float64) geom.Pos2D {
	return geom.Pos2D{X: p.x.eval(u), Y: p.y.eval(u)}
}

func (p *poly2) derivative(u float64) geom.Pos2D {
	return geom.Pos2D{X: p.dx.eval(u), Y: p.dy.eval(u)}
}

func (p *poly2) secondDerivative(u float64) geom.Pos2D {
	return geom.Pos2D{X: p.ddx.eval(u), Y: p.ddy.eval(u)}
}
