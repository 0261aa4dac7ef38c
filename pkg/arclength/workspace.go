package arclength

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
)

// Defaults
const (
	DefaultOrder  = 10
	DefaultPanels = 16
)

// Workspace is a composite Gauss-Legendre quadrature over the parameter
// domain [0, 1]. The domain is cut into Panels equal panels and each
// panel (or the part of it inside the integration interval) is integrated
// with an Order point rule, exact for polynomials up to degree 2*Order-1.
//
// The panel grid is fixed, so integrating [0, u] always splits at the same
// points and s(u) is a deterministic function of u.
//
// A Workspace reuses its buffers and must not be shared between goroutines.
type Workspace struct {
	order  int
	panels int

	// rule on [-1, 1]
	nodes   []float64
	weights []float64

	xs []float64
	fx []float64
}

// NewWorkspace allocates a workspace. Non-positive values select defaults.
func NewWorkspace(order, panels int) *Workspace {
	if order <= 0 {
		order = DefaultOrder
	}
	if panels <= 0 {
		panels = DefaultPanels
	}
	w := &Workspace{
		order:   order,
		panels:  panels,
		nodes:   make([]float64, order),
		weights: make([]float64, order),
		xs:      make([]float64, order),
		fx:      make([]float64, order),
	}
	quad.Legendre{}.FixedLocations(w.nodes, w.weights, -1, 1)
	return w
}

// Order is the number of nodes per panel.
func (w *Workspace) Order() int { return w.order }

// Panels is the number of panels over [0, 1].
func (w *Workspace) Panels() int { return w.panels }

// Integrate integrates f over [a, b], a and b inside [0, 1]. Reversed
// bounds give the negated integral.
func (w *Workspace) Integrate(f func(float64) float64, a, b float64) float64 {
	if a == b {
		return 0
	}
	if a > b {
		return -w.Integrate(f, b, a)
	}
	var sum float64
	width := 1 / float64(w.panels)
	// one panel early in case a sits on a rounded panel boundary.
	for k := max(w.panelOf(a)-1, 0); k < w.panels; k++ {
		lo, hi := float64(k)*width, float64(k+1)*width
		if k == w.panels-1 {
			hi = 1
		}
		if lo >= b {
			break
		}
		if lo < a {
			lo = a
		}
		if hi > b {
			hi = b
		}
		if hi > lo {
			sum += w.rule(f, lo, hi)
		}
	}
	return sum
}

func (w *Workspace) panelOf(u float64) int {
	k := int(u * float64(w.panels))
	if k < 0 {
		return 0
	}
	if k >= w.panels {
		return w.panels - 1
	}
	return k
}

func (w *Workspace) rule(f func(float64) float64, a, b float64) float64 {
	half, mid := (b-a)/2, (a+b)/2
	for i, x := range w.nodes {
		w.xs[i] = mid + half*x
		w.fx[i] = f(w.xs[i])
	}
	return half * floats.Dot(w.weights, w.fx)
}
